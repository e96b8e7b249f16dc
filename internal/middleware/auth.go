package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/token"
)

type contextKey string

const userKey contextKey = "user"

// UserLoader resolves the user named by an access token.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the authenticated user, or nil outside Authenticate.
func CurrentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

// Authenticate requires a valid bearer access token whose user still exists.
func Authenticate(tokens *token.Manager, users UserLoader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw), token.TypeAccess)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "user not found")
				return
			}
			if err != nil {
				logger.Error("failed to load user for token", zap.Int64("user_id", claims.UserID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
