// Package token issues and verifies the access/refresh JWT pair and keeps
// track of revoked refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalid   = errors.New("token is invalid or expired")
	ErrWrongType = errors.New("token has wrong type")
)

type Claims struct {
	TokenType Type  `json:"token_type"`
	UserID    int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Expiry is the expiry instant, or the zero time when the claim is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates a fresh access and refresh token for userID.
func (m *Manager) Issue(userID int64) (domain.TokenPair, error) {
	refresh, err := m.sign(userID, TypeRefresh, m.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := m.sign(userID, TypeAccess, m.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Refresh: refresh, Access: access}, nil
}

func (m *Manager) Access(userID int64) (string, error) {
	return m.sign(userID, TypeAccess, m.accessTTL)
}

func (m *Manager) sign(userID int64, typ Type, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		TokenType: typ,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, issuer and expiry, and that the token is of the
// wanted type.
func (m *Manager) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.TokenType != want {
		return nil, ErrWrongType
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalid
	}
	return claims, nil
}
