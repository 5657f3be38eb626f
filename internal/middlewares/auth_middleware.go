package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"projectops/internal/responses"
	"projectops/internal/services"
	"projectops/internal/utils"
)

// Context keys set by Authenticate.
const (
	UserIDKey        = "userId"
	TokenIDKey       = "tokenId"
	TokenIssuedAtKey = "tokenIssuedAt"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticate requires a valid, unrevoked bearer access token.
func Authenticate(tokens *utils.TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Missing Authorization header")
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Invalid Authorization format")
			return
		}

		claims, err := tokens.VerifyAccess(parts[1])
		if err != nil {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Invalid or expired token")
			return
		}

		blacklisted, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("token revocation check failed")
			responses.Abort(c, http.StatusInternalServerError, err, "Could not verify session")
			return
		}
		if blacklisted {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Session has been logged out")
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(TokenIDKey, claims.ID)
		if claims.IssuedAt != nil {
			c.Set(TokenIssuedAtKey, claims.IssuedAt.Time)
		}

		// Everything logged for this request from here on carries the user.
		logger := zerolog.Ctx(c.Request.Context()).With().Str("user_id", claims.Subject).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}
