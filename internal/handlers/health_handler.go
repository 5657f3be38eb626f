package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check can probe; both the pgx pool and the redis repository qualify.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Redis     string    `json:"redis"`
}

type HealthHandler struct {
	version string
	db      Pinger
	redis   Pinger
}

func NewHealthHandler(version string, db, redis Pinger) *HealthHandler {
	return &HealthHandler{version: version, db: db, redis: redis}
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

// HealthCheck handles GET /health. The database is required; redis only degrades the status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		DB:        probe(c.Request.Context(), h.db),
		Redis:     probe(c.Request.Context(), h.redis),
	}

	code := http.StatusOK
	switch {
	case resp.DB == "down":
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	case resp.Redis == "down":
		resp.Status = "degraded"
	}

	c.JSON(code, resp)
}
