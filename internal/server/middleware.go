package server

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"churn-dashboard/backend/internal/logger"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one line per request with method, path, status, and
// duration. The health endpoint is skipped to keep probe noise out of logs.
func RequestLogging(log *logger.Logger, next http.Handler) http.Handler {
	if log == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.WithRequest(r).WithField("status", rec.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request")
	})
}

// WrapOTel decorates the handler with otelhttp to produce server spans, and
// installs W3C tracecontext propagation so downstream calls carry traceparent.
func WrapOTel(serviceName string, h http.Handler) http.Handler {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return otelhttp.NewHandler(h, serviceName)
}
