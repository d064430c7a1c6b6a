package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db     HealthChecker
	kv     HealthChecker
	queue  HealthChecker
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler. db and queue may be nil
// when the handoff log or its queue is disabled.
func NewHealthHandler(db, kv, queue HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		kv:     kv,
		queue:  queue,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health. A database failure is unhealthy; a store or
// queue failure only degrades the desk, which keeps working on defaults and
// direct handoff writes.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if !h.check(ctx, "database", h.db, response.Services) {
		response.Status = "unhealthy"
	}
	for _, dep := range []struct {
		name    string
		checker HealthChecker
	}{
		{"store", h.kv},
		{"queue", h.queue},
	} {
		if !h.check(ctx, dep.name, dep.checker, response.Services) && response.Status == "healthy" {
			response.Status = "degraded"
		}
	}

	if response.Status == "unhealthy" {
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	respondSuccess(w, response)
}

// check records the state of one dependency and reports whether it is usable
func (h *HealthHandler) check(ctx context.Context, name string, c HealthChecker, services map[string]string) bool {
	if c == nil {
		services[name] = "not_configured"
		return true
	}
	if err := c.Health(ctx); err != nil {
		h.logger.Error("health check failed",
			slog.String("service", name),
			slog.String("error", err.Error()),
		)
		services[name] = "unhealthy"
		return false
	}
	services[name] = "healthy"
	return true
}
