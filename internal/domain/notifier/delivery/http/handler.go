// Package http contains the ops HTTP delivery of the notifier domain
package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const checkTimeout = 2 * time.Second

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// Pinger checks that a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	database Pinger
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		database: database,
		logger:   logger,
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	db := ComponentHealth{Name: "database", Healthy: true}
	if err := h.database(checkCtx); err != nil {
		db.Healthy = false
		db.Message = err.Error()
	}

	response := HealthResponse{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now().UTC(),
		Components: []ComponentHealth{db},
	}

	statusCode := fasthttp.StatusOK
	if !db.Healthy {
		response.Status = HealthStatusUnhealthy
		statusCode = fasthttp.StatusServiceUnavailable
		h.logger.Warn().Str("message", db.Message).Msg("Health check failed")
	}

	body, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}
