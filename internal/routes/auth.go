package routes

import (
	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type AuthRoutes struct {
	handler      *handlers.AuthHandler
	authenticate gin.HandlerFunc
}

func NewAuthRoutes(handler *handlers.AuthHandler, authenticate gin.HandlerFunc) *AuthRoutes {
	return &AuthRoutes{handler: handler, authenticate: authenticate}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		// Public routes
		auth.POST("/register", r.handler.Register)
		auth.POST("/login", r.handler.Login)
		auth.POST("/refresh", r.handler.Refresh)

		// Protected routes
		auth.POST("/logout", r.authenticate, r.handler.Logout)
	}
}
