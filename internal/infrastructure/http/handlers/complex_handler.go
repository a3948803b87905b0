package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hello-world/internal/domain"
	"hello-world/internal/infrastructure/logger"
)

type ComplexService interface {
	Run(ctx context.Context, req domain.ComplexRequest) (*domain.ComplexResponse, error)
}

type ComplexHandler struct {
	service ComplexService
	logger  logger.Logger
}

func NewComplexHandler(service ComplexService, logger logger.Logger) *ComplexHandler {
	return &ComplexHandler{
		service: service,
		logger:  logger,
	}
}

// GET /complex?db_sleep=0.1&is_db_error=False&external_sleep=0&is_external_error=False
func (h *ComplexHandler) Complex(w http.ResponseWriter, r *http.Request) {
	req, err := parseComplexRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("Invalid complex request", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, domain.NewAppError(domain.ErrCodeBadRequest, err.Error()))
		return
	}

	h.logger.Debug("Complex request received",
		"db_sleep", req.Database.Sleep, "is_db_error", req.Database.Fail,
		"external_sleep", req.Audit.Sleep, "is_external_error", req.Audit.Fail,
	)

	resp, err := h.service.Run(r.Context(), req)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondRunError answers before the server write deadline, so a slow
// dependency reaches the client as a 504 rather than a dropped connection.
func (h *ComplexHandler) respondRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.Warn("Complex request timed out", slog.Any("error", err))
		respondError(w, http.StatusGatewayTimeout, domain.NewAppError(domain.ErrCodeTimeout, err.Error()))
		return
	}

	if appErr, ok := domain.AsAppError(err); ok {
		respondError(w, http.StatusInternalServerError, appErr)
		return
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		respondError(w, http.StatusInternalServerError, domain.NewAppError(domain.ErrCodeDependencyFailed, err.Error()))
		return
	}

	h.logger.Error("Internal error running complex request", slog.Any("error", err))
	respondError(w, http.StatusInternalServerError, domain.NewAppError(domain.ErrCodeInternal, err.Error()))
}

func parseComplexRequest(q url.Values) (domain.ComplexRequest, error) {
	var req domain.ComplexRequest
	var err error

	if req.Database.Sleep, err = parseSeconds(q, "db_sleep"); err != nil {
		return req, err
	}
	if req.Database.Fail, err = parseFlag(q, "is_db_error"); err != nil {
		return req, err
	}
	if req.Audit.Sleep, err = parseSeconds(q, "external_sleep"); err != nil {
		return req, err
	}
	if req.Audit.Fail, err = parseFlag(q, "is_external_error"); err != nil {
		return req, err
	}

	return req, nil
}

func parseSeconds(q url.Values, key string) (time.Duration, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(seconds) {
		return 0, fmt.Errorf("%s must be a number of seconds", key)
	}
	if seconds < 0 {
		return 0, nil
	}
	if seconds >= float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64), nil
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// parseFlag accepts anything strconv.ParseBool does, including "True" and "False".
func parseFlag(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return v, nil
}
