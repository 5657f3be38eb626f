package routes

import (
	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type SyncRoutes struct {
	handler      *handlers.SyncHandler
	authenticate gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

func NewSyncRoutes(handler *handlers.SyncHandler, authenticate, requireAdmin gin.HandlerFunc) *SyncRoutes {
	return &SyncRoutes{handler: handler, authenticate: authenticate, requireAdmin: requireAdmin}
}

func (r *SyncRoutes) RegisterRoutes(router *gin.RouterGroup) {
	sync := router.Group("/sync")
	sync.Use(r.authenticate)
	{
		sync.GET("/status", r.handler.Status)
		sync.POST("/dingtalk", r.handler.RequestSync)
		sync.POST("/dingtalk/result", r.requireAdmin, r.handler.ReportResult)
	}
}
