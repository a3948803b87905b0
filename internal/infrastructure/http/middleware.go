package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hello-world/internal/infrastructure/logger"
	"hello-world/internal/infrastructure/metrics"
)

func LoggingMiddleware(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			logger.Debug("HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", duration),
			)
		})
	}
}

// MetricsMiddleware reports the latency of every request, including ones that
// ended in an error status. Failures inside the metrics call are logged and
// never reach the client.
func MetricsMiddleware(metrics metrics.Metrics, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			if metrics == nil {
				return
			}

			duration := time.Since(start).Seconds()
			observeSafely(logger, func() {
				metrics.ObserveSelf(routePath(r), r.Method, rw.statusCode, duration)
			})
		})
	}
}

func observeSafely(logger logger.Logger, observe func()) {
	defer func() {
		if rec := recover(); rec != nil && logger != nil {
			logger.Error("Metrics observation panicked", slog.Any("panic", rec))
		}
	}()
	observe()
}

// routePath prefers the matched chi pattern so that path parameters do not
// end up in label values.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
