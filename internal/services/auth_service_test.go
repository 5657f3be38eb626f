package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectops/internal/models"
	"projectops/internal/repositories"
	"projectops/internal/utils"
)

func newAuthService(t *testing.T) (*AuthService, *repositories.MemoryUserRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := repositories.NewMemoryUserRepository()
	tokens := utils.NewTokenManager([]byte("access-secret"), []byte("refresh-secret"), 15*time.Minute, 30*24*time.Hour)
	return NewAuthService(users, repositories.NewRedisRepository(rdb), tokens), users
}

func TestAuthService_RegisterFirstUserIsAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	first, err := svc.Register(ctx, RegisterRequest{Email: "Admin@Example.com", Password: "correct horse", Name: "管理员"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.Equal(t, "admin@example.com", first.User.Email)
	assert.NotEmpty(t, first.Tokens.AccessToken)
	assert.NotEmpty(t, first.Tokens.RefreshToken)

	second, err := svc.Register(ctx, RegisterRequest{Email: "pm@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.User.Role)

	_, err = svc.Register(ctx, RegisterRequest{Email: "ADMIN@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	registered, err := svc.Register(ctx, RegisterRequest{Email: "pm@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "pm@example.com", Password: "wrong horse"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	session, err := svc.Login(ctx, LoginRequest{Email: " PM@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	stored, err := users.FindUserByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	session, err := svc.Register(ctx, RegisterRequest{Email: "pm@example.com", Password: "correct horse"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.Tokens.TokenID, rotated.Tokens.TokenID)

	_, err = svc.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated, "a rotated refresh token cannot be reused")

	_, err = svc.Refresh(ctx, session.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated, "access tokens are not refresh tokens")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	session, err := svc.Register(ctx, RegisterRequest{Email: "pm@example.com", Password: "correct horse"})
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, session.Tokens.TokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, session.Tokens.TokenID, session.Tokens.RefreshExpiresAt))

	revoked, err = svc.IsRevoked(ctx, session.Tokens.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, svc.Logout(ctx, "", time.Now()), ErrUnauthenticated)
}
