package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requireStore rejects requests until the durable log is connected.
func (h *Handler) requireStore(c *gin.Context) {
	if !h.services.History.Ready() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": errNotReady,
		})
		return
	}
	c.Next()
}
