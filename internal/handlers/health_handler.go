package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Pinger es la parte del backend que necesita el health check.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

type HealthHandler struct {
	store  Pinger
	logger *log.Entry
}

func NewHealthHandler(store Pinger, logger *log.Entry) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).WithField("database", h.store.Name()).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": h.store.Name()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": h.store.Name()})
}
