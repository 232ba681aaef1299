package handlers

import (
	"errors"
	"net/http"

	"kitchenlog"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidJSON   = "Invalid JSON"
	errNotReady      = "Database not ready"
	errServer        = "Server error"
	errRenderer      = "PDF renderer unavailable"
	errInvalidCookID = "invalid cook id"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError maps a service error onto a status code and body. Only
// server-side failures are logged.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case kitchenlog.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, kitchenlog.ErrCookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, kitchenlog.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, kitchenlog.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotReady})
	case errors.Is(err, kitchenlog.ErrRendererUnavailable):
		h.logAndJSONError(c, http.StatusInternalServerError, errRenderer, logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, logKey, err, kv...)
	}
}
