package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
)

var ErrRevoked = errors.New("token already revoked")

// Denylist records refresh tokens that were logged out.
type Denylist interface {
	// Revoke returns ErrRevoked when the token was already revoked.
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type SQLDenylist struct {
	repo *repository.TokenRepository
}

func NewSQLDenylist(repo *repository.TokenRepository) *SQLDenylist {
	return &SQLDenylist{repo: repo}
}

func (d *SQLDenylist) Revoke(ctx context.Context, claims *Claims) error {
	err := d.repo.Add(ctx, claims.ID, claims.UserID, claims.Expiry())
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrRevoked
	}
	return err
}

func (d *SQLDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return d.repo.Contains(ctx, jti)
}

// Purge removes entries for tokens that have expired anyway.
func (d *SQLDenylist) Purge(ctx context.Context) (int64, error) {
	return d.repo.DeleteExpired(ctx, time.Now())
}

const redisKeyPrefix = "token:denylist:"

// RedisDenylist keeps one key per revoked jti that expires together with
// the token.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.Expiry())
	if ttl <= 0 {
		ttl = time.Second
	}
	ok, err := d.client.SetNX(ctx, redisKeyPrefix+claims.ID, claims.UserID, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !ok {
		return ErrRevoked
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
