// Package server wires the HTTP API: route registration, middleware, and the
// http.Server itself.
package server

import (
	"net/http"
	"time"

	analyticshandler "churn-dashboard/backend/internal/analytics/handler"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/analytics/store"
	healthhandler "churn-dashboard/backend/internal/health/handler"
	"churn-dashboard/backend/internal/logger"
)

// Deps holds the handler dependencies. Repo and Pinger may be nil; the
// affected endpoints degrade instead of failing startup.
type Deps struct {
	Store *store.Store
	Repo  repository.Repository
	// Pinger backs the /healthz database check (e.g. *sql.DB). If nil, the check is skipped.
	Pinger healthhandler.Pinger
	Log    *logger.Logger
}

// New builds the HTTP server for addr with all routes and middleware attached.
func New(addr, serviceName string, deps Deps) *http.Server {
	if deps.Log == nil {
		deps.Log = logger.New()
	}

	mux := http.NewServeMux()

	analyticshandler.New(deps.Store, deps.Repo, deps.Log.WithComponent("api")).Register(mux)
	mux.Handle("GET /healthz", healthhandler.New(deps.Pinger))

	handler := RequestLogging(deps.Log, mux)
	handler = WrapOTel(serviceName, handler)

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
