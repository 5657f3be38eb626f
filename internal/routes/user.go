package routes

import (
	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type UserRoutes struct {
	userHandler  *handlers.UserHandler
	authenticate gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

func NewUserRoutes(userHandler *handlers.UserHandler, authenticate, requireAdmin gin.HandlerFunc) *UserRoutes {
	return &UserRoutes{
		userHandler:  userHandler,
		authenticate: authenticate,
		requireAdmin: requireAdmin,
	}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(r.authenticate) // All user routes require authentication
	{
		users.GET("/me", r.userHandler.GetMe)
		// Every signed-in user can pick a framework manager.
		users.GET("", r.userHandler.ListUsers)

		// Admin-only routes
		users.GET("/:user_id", r.requireAdmin, r.userHandler.GetUser)
		users.PATCH("/:user_id/role", r.requireAdmin, r.userHandler.UpdateRole)
	}

	router.GET("/roles", r.authenticate, r.requireAdmin, r.userHandler.ListRoles)
}
