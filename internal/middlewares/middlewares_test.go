package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectops/internal/models"
	"projectops/internal/utils"
)

type revocations map[string]bool

func (r revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "broken" {
		return false, errors.New("redis unavailable")
	}
	return r[jti], nil
}

type userFinder map[uuid.UUID]*models.User

func (f userFinder) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f[id], nil
}

func newTokens() *utils.TokenManager {
	return utils.NewTokenManager([]byte("access"), []byte("refresh"), time.Minute, time.Hour)
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens()
	userID := uuid.New()

	valid, err := tokens.GenerateTokens(userID)
	require.NoError(t, err)
	revoked, err := tokens.GenerateTokens(userID)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", Authenticate(tokens, revocations{revoked.TokenID: true}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserIDKey))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid.AccessToken, http.StatusUnauthorized},
		{"refresh token as access", "Bearer " + valid.RefreshToken, http.StatusUnauthorized},
		{"revoked", "Bearer " + revoked.AccessToken, http.StatusUnauthorized},
		{"valid", "Bearer " + valid.AccessToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "未登录", body["error"])
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	member := &models.User{ID: uuid.New(), Role: models.RoleUser}
	users := userFinder{admin.ID: admin, member.ID: member}

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"admin", admin.ID.String(), http.StatusOK},
		{"member", member.ID.String(), http.StatusForbidden},
		{"unknown user", uuid.NewString(), http.StatusUnauthorized},
		{"no user", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", func(c *gin.Context) {
				c.Set(UserIDKey, tt.userID)
				c.Next()
			}, RequireAdmin(users), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthenticateRevocationCheckFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens()

	// A jti that the stub treats as a storage failure.
	claims := &utils.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "broken",
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access"))
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", Authenticate(tokens, revocations{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/projects/:id", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/42", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"message":"inside handler"`)
	assert.Contains(t, buf.String(), `"path":"/projects/:id"`)
	assert.Contains(t, buf.String(), `"status":204`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/43", nil))
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
