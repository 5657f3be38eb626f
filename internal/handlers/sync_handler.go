package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectops/internal/responses"
	"projectops/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Status handles GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.syncService.Status(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to read sync status")
		return
	}

	responses.Success(c, http.StatusOK, status, "")
}

// RequestSync handles POST /api/v1/sync/dingtalk
func (h *SyncHandler) RequestSync(c *gin.Context) {
	status, err := h.syncService.RequestSync(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err, "Could not start DingTalk sync")
		return
	}

	responses.Success(c, http.StatusAccepted, status, "DingTalk sync requested")
}

// ReportResult handles POST /api/v1/sync/dingtalk/result (admin only)
func (h *SyncHandler) ReportResult(c *gin.Context) {
	var req services.SyncResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "status is required")
		return
	}

	status, err := h.syncService.ReportResult(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to record sync result")
		return
	}

	responses.Success(c, http.StatusOK, status, "")
}
