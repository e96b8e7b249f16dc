package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/metrics"
	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/token"
	"github.com/yusufkecer/fitness-tracker-backend/internal/validation"
)

// UserStore is the account persistence used by the auth and user endpoints.
type UserStore interface {
	validation.AccountLookup
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}

type AuthHandler struct {
	users        UserStore
	tokens       *token.Manager
	denylist     token.Denylist
	logger       *zap.Logger
	passwordCost int
	today        func() domain.Date
}

func NewAuthHandler(
	users UserStore,
	tokens *token.Manager,
	denylist token.Denylist,
	logger *zap.Logger,
	passwordCost int,
	today func() domain.Date,
) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokens:       tokens,
		denylist:     denylist,
		logger:       logger,
		passwordCost: passwordCost,
		today:        today,
	}
}

type registerResponse struct {
	User    UserView         `json:"user"`
	Message string           `json:"message"`
	Tokens  domain.TokenPair `json:"tokens"`
}

type loginResponse struct {
	Refresh string   `json:"refresh"`
	Access  string   `json:"access"`
	User    UserView `json:"user"`
	Message string   `json:"message"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	today := h.today()

	errs := validation.Struct(req)
	errs.Merge(validation.Profile("profile.", req.Profile, today))
	if !errs.HasField("password") && !errs.HasField("password2") {
		if fe := validation.ValidatePasswordConfirmation("password", req.Password, req.Password2); fe != nil {
			errs.Append(fe)
		} else {
			errs.Merge(validation.ValidatePasswordStrength("password", req.Password, req.Username, req.Email))
		}
	}
	if !errs.HasField("username") {
		fe, err := validation.ValidateUsernameUniqueness(r.Context(), h.users, req.Username)
		if err != nil {
			serverError(w, r, h.logger, "failed to register user", err)
			return
		}
		errs.Append(fe)
	}
	if !errs.HasField("email") {
		fe, err := validation.ValidateEmailUniqueness(r.Context(), h.users, req.Email, 0)
		if err != nil {
			serverError(w, r, h.logger, "failed to register user", err)
			return
		}
		errs.Append(fe)
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.passwordCost)
	if err != nil {
		serverError(w, r, h.logger, "failed to hash password", err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Profile:      &domain.UserProfile{},
	}
	if req.Profile != nil {
		if err := req.Profile.ApplyTo(user.Profile); err != nil {
			serverError(w, r, h.logger, "failed to register user", err)
			return
		}
	}

	err = h.users.Create(r.Context(), user)
	if errors.Is(err, repository.ErrDuplicate) {
		var dup validation.Errors
		dup.Add("username", validation.DuplicateUsername, "A user with that username or email already exists.")
		writeValidation(w, dup)
		return
	}
	if err != nil {
		serverError(w, r, h.logger, "failed to register user", err)
		return
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, r, h.logger, "failed to generate token", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventRegister).Inc()
	h.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	writeJSON(w, http.StatusCreated, registerResponse{
		User:    newUserView(user, today),
		Message: "User registered successfully",
		Tokens:  pair,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.Struct(req); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		serverError(w, r, h.logger, "failed to login", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		metrics.AuthEvents.WithLabelValues(metrics.EventLoginFailed).Inc()
		writeError(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, r, h.logger, "failed to generate token", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventLogin).Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Refresh: pair.Refresh,
		Access:  pair.Access,
		User:    newUserView(user, h.today()),
		Message: "Login successful",
	})
}

// Logout revokes the caller's refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var req domain.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Refresh == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := h.tokens.Parse(req.Refresh, token.TypeRefresh)
	if err != nil || claims.UserID != user.ID {
		writeError(w, http.StatusBadRequest, "Token is invalid or expired")
		return
	}

	err = h.denylist.Revoke(r.Context(), claims)
	if errors.Is(err, token.ErrRevoked) {
		writeError(w, http.StatusBadRequest, "Token is blacklisted")
		return
	}
	if err != nil {
		serverError(w, r, h.logger, "failed to logout", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventLogout).Inc()
	writeJSON(w, http.StatusResetContent, map[string]string{"message": "Logout successful"})
}

// Refresh exchanges a live refresh token for a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Refresh == "" {
		var errs validation.Errors
		errs.Add("refresh", validation.MissingRequiredField, "This field is required.")
		writeValidation(w, errs)
		return
	}

	claims, err := h.tokens.Parse(req.Refresh, token.TypeRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	revoked, err := h.denylist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		serverError(w, r, h.logger, "failed to refresh token", err)
		return
	}
	if revoked {
		writeError(w, http.StatusUnauthorized, "Token is blacklisted")
		return
	}

	if _, err := h.users.GetByID(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}
		serverError(w, r, h.logger, "failed to refresh token", err)
		return
	}

	access, err := h.tokens.Access(claims.UserID)
	if err != nil {
		serverError(w, r, h.logger, "failed to generate token", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventRefresh).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}
