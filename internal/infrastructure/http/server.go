package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hello-world/internal/config"
	"hello-world/internal/infrastructure/http/handlers"
	"hello-world/internal/infrastructure/logger"
	"hello-world/internal/infrastructure/metrics"
)

// Collector is both recorded into by the middleware and scraped by /metrics.
type Collector interface {
	metrics.Metrics
	metrics.Exporter
}

type Server struct {
	cfg             *config.Config
	router          *chi.Mux
	server          *http.Server
	greetingHandler *handlers.GreetingHandler
	complexHandler  *handlers.ComplexHandler
	metrics         metrics.Metrics
	exporter        metrics.Exporter
	logger          logger.Logger
}

func NewServer(
	cfg *config.Config,
	greetingHandler *handlers.GreetingHandler,
	complexHandler *handlers.ComplexHandler,
	collector Collector,
	logger logger.Logger,
) *Server {
	s := &Server{
		cfg:             cfg,
		greetingHandler: greetingHandler,
		complexHandler:  complexHandler,
		metrics:         collector,
		exporter:        collector,
		logger:          logger,
	}

	s.setupRouter()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(MetricsMiddleware(s.metrics, s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.handlerTimeout()))

	// Служебные маршруты
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.exportMetrics)

	// Демонстрационные маршруты
	r.Get("/hello", s.greetingHandler.Hello)
	r.Get("/world", s.greetingHandler.World)
	r.Get("/complex", s.complexHandler.Complex)

	s.router = r
}

const defaultHandlerTimeout = 25 * time.Second

// handlerTimeout must expire before the server write deadline, otherwise the
// connection is closed under the handler and the client reads EOF.
func (s *Server) handlerTimeout() time.Duration {
	timeout := defaultHandlerTimeout
	if s.cfg.Server.HandlerTimeout > 0 {
		timeout = time.Duration(s.cfg.Server.HandlerTimeout) * time.Second
	}

	writeTimeout := time.Duration(s.cfg.Server.WriteTimeout) * time.Second
	if writeTimeout > 0 && timeout >= writeTimeout {
		clamped := writeTimeout - writeTimeout/10
		s.logger.Warn("Handler timeout does not fit in write timeout, clamping",
			"handler_timeout", timeout, "write_timeout", writeTimeout, "clamped", clamped)
		timeout = clamped
	}

	return timeout
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "port", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
