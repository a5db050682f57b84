package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/roomreserve/internal/infrastructure/redis"
	"github.com/yourorg/roomreserve/pkg/database"
)

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	pool   *database.ConnectionPool
	redis  *redis.Client
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *database.ConnectionPool, redisClient *redis.Client, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{pool: pool, redis: redisClient, logger: logger}
}

// HealthResponse represents the liveness response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz, a bare liveness check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz. Postgres must be up for the service to be
// ready; Redis only degrades logout, so a redis failure is reported but
// does not flip readiness.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadinessResponse{
		Status: "ready",
		Checks: map[string]string{
			"postgres": "ok",
			"redis":    "ok",
		},
	}
	status := http.StatusOK

	if err := h.pool.Health(ctx); err != nil {
		h.logger.Warn("postgres not ready", slog.String("error", err.Error()))
		resp.Checks["postgres"] = err.Error()
		resp.Status = "not ready"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Warn("redis not ready", slog.String("error", err.Error()))
			resp.Checks["redis"] = "degraded: " + err.Error()
		}
	} else {
		resp.Checks["redis"] = "not configured"
	}

	writeJSON(w, status, resp)
}
