package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"travel-journal-backend/internal/service"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes. ok is false for unexpected errors.
func statusFor(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrMissingRefreshToken):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, true
	default:
		return http.StatusInternalServerError, false
	}
}

// respondError writes the error body for err. Unexpected errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	status, ok := statusFor(err)
	if !ok {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		utils.ErrorResponse(c, status, "Internal server error")
		return
	}
	utils.ErrorResponse(c, status, err.Error())
}

// pathID parses a numeric path parameter, writing 400 when it is malformed
func pathID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(id), true
}
