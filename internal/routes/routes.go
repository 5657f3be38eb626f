package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Project   *handlers.ProjectHandler
	Framework *handlers.FrameworkHandler
	Sync      *handlers.SyncHandler
	Health    *handlers.HealthHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers, authenticate, requireAdmin gin.HandlerFunc) {
	api := router.Group("/api/v1")

	NewAuthRoutes(h.Auth, authenticate).RegisterRoutes(api)
	NewUserRoutes(h.User, authenticate, requireAdmin).RegisterRoutes(api)
	NewProjectRoutes(h.Project, authenticate).RegisterRoutes(api)
	NewFrameworkRoutes(h.Framework, authenticate).RegisterRoutes(api)
	NewSyncRoutes(h.Sync, authenticate, requireAdmin).RegisterRoutes(api)

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
