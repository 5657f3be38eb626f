package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectops/internal/responses"
	"projectops/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	roleService *services.RoleService
}

func NewUserHandler(userService *services.UserService, roleService *services.RoleService) *UserHandler {
	return &UserHandler{
		userService: userService,
		roleService: roleService,
	}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err, "Failed to retrieve user")
		return
	}

	responses.Success(c, http.StatusOK, user, "User retrieved successfully")
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to list users")
		return
	}

	responses.Success(c, http.StatusOK, users, "")
}

// GetUser handles GET /api/v1/users/:user_id (admin only)
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err, "User not found")
		return
	}

	responses.Success(c, http.StatusOK, user, "User retrieved successfully")
}

// UpdateRole handles PATCH /api/v1/users/:user_id/role (admin only)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req services.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "role is required")
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), currentUserID(c), c.Param("user_id"), req)
	if err != nil {
		writeError(c, err, "Failed to update role")
		return
	}

	responses.Success(c, http.StatusOK, user, "Role updated")
}

// ListRoles handles GET /api/v1/roles (admin only)
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to list roles")
		return
	}

	responses.Success(c, http.StatusOK, roles, "")
}
