package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectops/internal/responses"
	"projectops/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	budgetService  *services.BudgetService
}

func NewProjectHandler(projectService *services.ProjectService, budgetService *services.BudgetService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		budgetService:  budgetService,
	}
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var query services.ListProjectsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err, "Invalid query parameters")
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), query)
	if err != nil {
		writeError(c, err, "Failed to list projects")
		return
	}

	responses.Success(c, http.StatusOK, projects, "")
}

// GetProject handles GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Project not found")
		return
	}

	responses.Success(c, http.StatusOK, project, "")
}

// SubmitDesignConfirm handles POST /api/v1/projects/:id/design-confirm
func (h *ProjectHandler) SubmitDesignConfirm(c *gin.Context) {
	var req services.DesignConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "confirmed is required")
		return
	}

	project, err := h.projectService.SubmitDesignConfirm(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to submit design confirmation")
		return
	}

	responses.Success(c, http.StatusOK, project, "Design confirmation submitted")
}

// SubmitPendingEntry handles POST /api/v1/projects/:id/pending-entry
func (h *ProjectHandler) SubmitPendingEntry(c *gin.Context) {
	var req services.PendingEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "contractAmount must be a non-negative number")
		return
	}

	project, err := h.projectService.SubmitPendingEntry(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to submit pending entry")
		return
	}

	responses.Success(c, http.StatusOK, project, "Pending entry submitted")
}

// Archive handles POST /api/v1/projects/:id/archive
func (h *ProjectHandler) Archive(c *gin.Context) {
	project, err := h.projectService.Archive(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to archive project")
		return
	}

	responses.Success(c, http.StatusOK, project, "Project archived")
}

// CancelArchive handles POST /api/v1/projects/:id/cancel-archive
func (h *ProjectHandler) CancelArchive(c *gin.Context) {
	project, err := h.projectService.CancelArchive(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to cancel archive")
		return
	}

	responses.Success(c, http.StatusOK, project, "Archive cancelled")
}

// LinkFramework handles PUT /api/v1/projects/:id/framework
func (h *ProjectHandler) LinkFramework(c *gin.Context) {
	var req services.LinkFrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid request body")
		return
	}

	project, err := h.projectService.LinkFramework(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to link framework")
		return
	}

	responses.Success(c, http.StatusOK, project, "Framework updated")
}

// ListBudgets handles GET /api/v1/projects/:id/budgets
func (h *ProjectHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to list budgets")
		return
	}

	responses.Success(c, http.StatusOK, budgets, "")
}

// ListExpenses handles GET /api/v1/projects/:id/expenses
func (h *ProjectHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.budgetService.ListExpenses(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to list expenses")
		return
	}

	responses.Success(c, http.StatusOK, expenses, "")
}

// BudgetSummary handles GET /api/v1/projects/:id/budget-summary
func (h *ProjectHandler) BudgetSummary(c *gin.Context) {
	summary, err := h.budgetService.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to load budget summary")
		return
	}

	responses.Success(c, http.StatusOK, summary, "")
}
