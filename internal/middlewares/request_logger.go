package middlewares

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger gives every request an ID (reusing X-Request-Id when the
// caller sent one), attaches a request-scoped logger to the context and logs
// the outcome once the handler chain returns.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Writer.Header().Set(RequestIDHeader, rid)

		logger := base.With().Str("request_id", rid).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := zerolog.Ctx(c.Request.Context()).Info()
		switch {
		case status >= 500:
			event = zerolog.Ctx(c.Request.Context()).Error()
		case status >= 400:
			event = zerolog.Ctx(c.Request.Context()).Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
