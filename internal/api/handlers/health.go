package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by backing stores that can report liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	store string
	db    Pinger // nil for the memory store
}

// NewHealthHandler creates a health handler; db may be nil
func NewHealthHandler(store string, db Pinger) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": "carbon-portfolio-api",
		"store":   h.store,
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["error"] = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}

	respondJSON(w, http.StatusOK, body)
}
