package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projectops/internal/models"
	"projectops/internal/responses"
	"projectops/internal/services"
)

type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAdmin checks if the authenticated user is an admin.
// It must run after Authenticate.
func RequireAdmin(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString(UserIDKey))
		if err != nil {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "Unauthorized")
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			responses.Abort(c, http.StatusInternalServerError, err, "Could not load user")
			return
		}
		if user == nil {
			responses.Abort(c, http.StatusUnauthorized, services.ErrUnauthenticated, "User not found")
			return
		}

		if !user.IsAdmin() {
			responses.Abort(c, http.StatusForbidden, errors.New("forbidden"), "Access denied. Admin privileges required.")
			return
		}

		c.Set("authenticatedUser", user)
		c.Next()
	}
}
