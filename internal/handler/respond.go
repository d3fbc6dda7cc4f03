package handler

import (
	"errors"
	"net/http"

	"mealsnap/internal/logger"
	"mealsnap/internal/service"

	"github.com/gin-gonic/gin"
)

// fail converts any failure from the delegated work into the uniform
// {"success":false,"error":...} shape. No failure crashes the process.
func fail(c *gin.Context, err error) {
	logger.Warn("request failed", "path", c.FullPath(), "err", err)
	c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoImage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrMalformedResponse), errors.Is(err, service.ErrMissingFields):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
