package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TokenRepository stores revoked refresh-token ids until they expire.
type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Add revokes jti. Revoking the same id twice returns ErrDuplicate.
func (r *TokenRepository) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO token_denylist (jti, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		jti, userID, dbTime(expiresAt), dbTime(time.Now()),
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Contains(ctx context.Context, jti string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM token_denylist WHERE jti = ?", jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return count > 0, nil
}

// DeleteExpired drops entries whose token could no longer be presented.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM token_denylist WHERE expires_at <= ?", dbTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}
	return result.RowsAffected()
}
