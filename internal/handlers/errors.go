package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"projectops/internal/middlewares"
	"projectops/internal/responses"
	"projectops/internal/services"
)

// statusFor maps a service error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error, message string) {
	status := statusFor(err)

	logger := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg(message)
	} else {
		logger.Debug().Err(err).Msg(message)
	}
	_ = c.Error(err)

	responses.Fail(c, status, err, message)
}

// bindError reports a request body or query that did not bind.
func bindError(c *gin.Context, err error, message string) {
	responses.Fail(c, http.StatusBadRequest, fmt.Errorf("%w: %w", services.ErrValidation, err), message)
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middlewares.UserIDKey)
}
