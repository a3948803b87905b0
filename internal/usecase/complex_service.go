package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hello-world/internal/domain"
	"hello-world/internal/infrastructure/external"
	"hello-world/internal/infrastructure/logger"
	"hello-world/internal/infrastructure/metrics"
	"hello-world/internal/infrastructure/storage"
)

// ComplexService calls the database and then the audit service. Every
// attempt is reported to the dependency latency metrics, failed ones too.
type ComplexService struct {
	db       storage.Database
	audit    external.AuditClient
	metrics  metrics.Metrics
	maxSleep time.Duration
	logger   logger.Logger
}

func NewComplexService(
	db storage.Database,
	audit external.AuditClient,
	metrics metrics.Metrics,
	maxSleep time.Duration,
	logger logger.Logger,
) *ComplexService {
	return &ComplexService{
		db:       db,
		audit:    audit,
		metrics:  metrics,
		maxSleep: maxSleep,
		logger:   logger,
	}
}

func (s *ComplexService) Run(ctx context.Context, req domain.ComplexRequest) (*domain.ComplexResponse, error) {
	dbResult := s.callDatabase(ctx, s.clamp(req.Database))
	if dbResult.Err != nil {
		s.logger.Warn("Database call failed",
			slog.Int("status_code", dbResult.StatusCode),
			slog.Any("error", dbResult.Err),
		)
		return nil, fmt.Errorf("database: %w", dbResult.Err)
	}

	auditResult := s.callAudit(ctx, s.clamp(req.Audit))
	if auditResult.Err != nil {
		s.logger.Warn("Audit call failed",
			slog.Int("status_code", auditResult.StatusCode),
			slog.Any("error", auditResult.Err),
		)
		return nil, fmt.Errorf("audit: %w", auditResult.Err)
	}

	return &domain.ComplexResponse{
		Status:          "ok",
		DatabaseSeconds: dbResult.Duration.Seconds(),
		AuditSeconds:    auditResult.Duration.Seconds(),
	}, nil
}

func (s *ComplexService) callDatabase(ctx context.Context, call domain.DependencyCall) domain.DependencyResult {
	result := timed(ctx, func(ctx context.Context) error {
		return s.db.Query(ctx, call)
	})
	if s.metrics != nil {
		s.metrics.ObserveDependencyA(result.StatusCode, result.Duration.Seconds())
	}
	return result
}

func (s *ComplexService) callAudit(ctx context.Context, call domain.DependencyCall) domain.DependencyResult {
	result := timed(ctx, func(ctx context.Context) error {
		return s.audit.Call(ctx, call)
	})
	if s.metrics != nil {
		s.metrics.ObserveDependencyB(result.StatusCode, result.Duration.Seconds())
	}
	return result
}

func (s *ComplexService) clamp(call domain.DependencyCall) domain.DependencyCall {
	if call.Sleep < 0 {
		call.Sleep = 0
	}
	if s.maxSleep > 0 && call.Sleep > s.maxSleep {
		call.Sleep = s.maxSleep
	}
	return call
}

func timed(ctx context.Context, fn func(context.Context) error) domain.DependencyResult {
	start := time.Now()
	err := fn(ctx)

	return domain.DependencyResult{
		StatusCode: statusCode(ctx, err),
		Duration:   time.Since(start),
		Err:        err,
	}
}

func statusCode(ctx context.Context, err error) int {
	if err == nil {
		return http.StatusOK
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}
