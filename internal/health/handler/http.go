// Package handler serves liveness/readiness for Kubernetes, load balancers, and CI.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger reports backing-store reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler answers /healthz. A nil pinger skips the database check.
type Handler struct {
	pinger Pinger
}

// New returns a health handler. pinger may be nil.
func New(pinger Pinger) *Handler {
	return &Handler{pinger: pinger}
}

// ServeHTTP reports overall status plus the database check result.
// Degraded storage returns 503 so orchestrators stop routing traffic.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok", "database": "skipped"}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
