package routes

import (
	"github.com/gin-gonic/gin"

	"projectops/internal/handlers"
)

type ProjectRoutes struct {
	handler      *handlers.ProjectHandler
	authenticate gin.HandlerFunc
}

func NewProjectRoutes(handler *handlers.ProjectHandler, authenticate gin.HandlerFunc) *ProjectRoutes {
	return &ProjectRoutes{handler: handler, authenticate: authenticate}
}

func (r *ProjectRoutes) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(r.authenticate) // All project routes require authentication
	{
		projects.GET("", r.handler.ListProjects)
		projects.GET("/:id", r.handler.GetProject)

		projects.POST("/:id/design-confirm", r.handler.SubmitDesignConfirm)
		projects.POST("/:id/pending-entry", r.handler.SubmitPendingEntry)
		projects.POST("/:id/archive", r.handler.Archive)
		projects.POST("/:id/cancel-archive", r.handler.CancelArchive)
		projects.PUT("/:id/framework", r.handler.LinkFramework)

		projects.GET("/:id/budgets", r.handler.ListBudgets)
		projects.GET("/:id/expenses", r.handler.ListExpenses)
		projects.GET("/:id/budget-summary", r.handler.BudgetSummary)
	}
}
