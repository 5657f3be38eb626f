package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents JWT claims. The subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenID          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenManager issues and verifies HS256 access and refresh tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// GenerateTokens creates an access/refresh pair sharing one jti, so logging out revokes both.
func (m *TokenManager) GenerateTokens(userID uuid.UUID) (*TokenPair, error) {
	jti := uuid.NewString()
	now := m.now()

	pair := &TokenPair{
		TokenID:          jti,
		AccessExpiresAt:  now.Add(m.accessTTL),
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}

	access, err := sign(userID, jti, now, pair.AccessExpiresAt, m.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := sign(userID, jti, now, pair.RefreshExpiresAt, m.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	pair.AccessToken = access
	pair.RefreshToken = refresh
	return pair, nil
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *TokenManager) VerifyAccess(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, m.accessSecret)
}

func (m *TokenManager) VerifyRefresh(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, m.refreshSecret)
}

func (m *TokenManager) verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

func sign(userID uuid.UUID, jti string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
