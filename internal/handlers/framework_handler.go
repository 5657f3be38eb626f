package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectops/internal/responses"
	"projectops/internal/services"
)

type FrameworkHandler struct {
	frameworkService *services.FrameworkService
	projectService   *services.ProjectService
}

func NewFrameworkHandler(frameworkService *services.FrameworkService, projectService *services.ProjectService) *FrameworkHandler {
	return &FrameworkHandler{
		frameworkService: frameworkService,
		projectService:   projectService,
	}
}

// ListFrameworks handles GET /api/v1/frameworks
func (h *FrameworkHandler) ListFrameworks(c *gin.Context) {
	frameworks, err := h.frameworkService.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to list frameworks")
		return
	}

	responses.Success(c, http.StatusOK, frameworks, "")
}

// CreateFramework handles POST /api/v1/frameworks
func (h *FrameworkHandler) CreateFramework(c *gin.Context) {
	var req services.FrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "name and managerId are required")
		return
	}

	framework, err := h.frameworkService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err, "Failed to create framework")
		return
	}

	responses.Success(c, http.StatusCreated, framework, "Framework created")
}

// GetFramework handles GET /api/v1/frameworks/:id
func (h *FrameworkHandler) GetFramework(c *gin.Context) {
	framework, err := h.frameworkService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Framework not found")
		return
	}

	responses.Success(c, http.StatusOK, framework, "")
}

// UpdateFramework handles PUT /api/v1/frameworks/:id
func (h *FrameworkHandler) UpdateFramework(c *gin.Context) {
	var req services.FrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "name and managerId are required")
		return
	}

	framework, err := h.frameworkService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to update framework")
		return
	}

	responses.Success(c, http.StatusOK, framework, "Framework updated")
}

// DeleteFramework handles DELETE /api/v1/frameworks/:id
func (h *FrameworkHandler) DeleteFramework(c *gin.Context) {
	if err := h.frameworkService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete framework")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Framework deleted")
}

// HasProjects handles GET /api/v1/frameworks/:id/has-projects
func (h *FrameworkHandler) HasProjects(c *gin.Context) {
	has, err := h.projectService.HasAssociatedProjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to check associated projects")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"hasProjects": has}, "")
}
