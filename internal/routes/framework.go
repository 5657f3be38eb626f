package routes

import (
	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type FrameworkRoutes struct {
	handler      *handlers.FrameworkHandler
	authenticate gin.HandlerFunc
}

func NewFrameworkRoutes(handler *handlers.FrameworkHandler, authenticate gin.HandlerFunc) *FrameworkRoutes {
	return &FrameworkRoutes{handler: handler, authenticate: authenticate}
}

func (r *FrameworkRoutes) RegisterRoutes(router *gin.RouterGroup) {
	frameworks := router.Group("/frameworks")
	frameworks.Use(r.authenticate)
	{
		frameworks.GET("", r.handler.ListFrameworks)
		frameworks.POST("", r.handler.CreateFramework)
		frameworks.GET("/:id", r.handler.GetFramework)
		frameworks.PUT("/:id", r.handler.UpdateFramework)
		frameworks.DELETE("/:id", r.handler.DeleteFramework)
		frameworks.GET("/:id/has-projects", r.handler.HasProjects)
	}
}
