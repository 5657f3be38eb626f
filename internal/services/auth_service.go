package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"projectops/internal/models"
	"projectops/internal/repositories"
	"projectops/internal/utils"
)

type AuthService struct {
	users     UserStore
	blacklist TokenBlacklist
	tokens    *utils.TokenManager
	now       func() time.Time
}

func NewAuthService(users UserStore, blacklist TokenBlacklist, tokens *utils.TokenManager) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		now:       time.Now,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is the result of a successful register, login or refresh.
type Session struct {
	User   *models.User
	Tokens *utils.TokenPair
}

// Register creates an account. The first account becomes admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, storeRead(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrValidation)
		}
		return nil, storeWrite(err)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, storeRead(err)
	}
	// Unknown email and wrong password look the same to the caller.
	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}
	if err := utils.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, storeWrite(err)
	}
	user.LastLoginAt = &now

	return s.issue(user)
}

// Refresh rotates a refresh token: the old token ID is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, storeRead(err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthenticated)
	}

	userID, _ := claims.UserID()
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeRead(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	}

	if err := s.revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout revokes a token ID. Access and refresh tokens share it, so both stop
// working; expiresAt is when the longer-lived of the two expires.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrUnauthenticated
	}
	return s.revoke(ctx, jti, expiresAt)
}

// IsRevoked reports whether the token ID was logged out.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.IsBlacklisted(ctx, jti)
}

// RefreshExpiry is the latest moment a refresh token issued at issuedAt can be used.
func (s *AuthService) RefreshExpiry(issuedAt time.Time) time.Time {
	return issuedAt.Add(s.tokens.RefreshTTL())
}

func (s *AuthService) revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.blacklist.Blacklist(ctx, jti, expiresAt.Sub(s.now())); err != nil {
		return storeWrite(err)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	pair, err := s.tokens.GenerateTokens(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &Session{User: user, Tokens: pair}, nil
}
