package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler takes the cache as optional; a nil cache is reported as disabled.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

// Check is DOWN (503) only when the database is unreachable; Redis is optional.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "UP", "database": "up", "cache": "disabled"}

	if err := h.database.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "DOWN"
		body["database"] = "down"
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			body["cache"] = "down"
		} else {
			body["cache"] = "up"
		}
	}

	c.JSON(status, body)
}
