package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger func(ctx context.Context) error

// HealthHandler serves liveness checks
type HealthHandler struct {
	storage string
	ping    Pinger
}

// NewHealthHandler creates a new HealthHandler. ping may be nil for stores
// that are always available.
func NewHealthHandler(storage string, ping Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, ping: ping}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "down",
				"storage": h.storage,
				"error":   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "up",
		"storage": h.storage,
		"time":    time.Now().UTC(),
	})
}
