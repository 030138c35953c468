// Package server assembles the HTTP API: routes, middleware and CORS.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/tasks"
)

type Deps struct {
	Tasks  *tasks.TaskHandler
	Events analytics.Recorder
	Auth   auth.Middleware
	Logger *slog.Logger

	Tracer          trace.Tracer
	RequestDuration metric.Float64Histogram

	CORSOrigins []string
}

// New returns the root handler.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Tracer == nil {
		d.Tracer = nooptrace.NewTracerProvider().Tracer("taskboard")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", readyHandler(d.Tasks.Store))

	protect := func(h http.HandlerFunc) http.Handler { return d.Auth.Wrap(h) }

	// ----- TASKS API -----
	mux.Handle("GET /tasks", protect(d.Tasks.List))
	mux.Handle("POST /tasks", protect(d.Tasks.Create))
	mux.Handle("GET /tasks/stats", protect(d.Tasks.Stats))
	mux.Handle("PUT /tasks/{id}", protect(d.Tasks.Update))
	mux.Handle("DELETE /tasks/{id}", protect(d.Tasks.Delete))
	if d.Events != nil {
		mux.Handle("GET /tasks/{id}/events", protect(analytics.TaskEventsHandler(d.Events)))
	}

	var h http.Handler = mux
	h = tracing(h, d.Tracer, d.RequestDuration)
	h = requestLogging(h, d.Logger)
	h = requestID(h)

	c := cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type", "Authorization", "Idempotency-Key",
			"X-Request-Id", "X-Platform", "X-App-Version", "X-Session-Id",
		},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler(h)
}

func readyHandler(store tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
