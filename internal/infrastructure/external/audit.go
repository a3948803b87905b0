package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hello-world/internal/domain"
)

// AuditClient is the downstream audit service the /complex route depends on.
type AuditClient interface {
	Call(ctx context.Context, call domain.DependencyCall) error
}

// SimulatedAudit stands in for the audit service by sleeping.
type SimulatedAudit struct{}

func NewSimulatedAudit() *SimulatedAudit {
	return &SimulatedAudit{}
}

func (a *SimulatedAudit) Call(ctx context.Context, call domain.DependencyCall) error {
	if call.Sleep > 0 {
		timer := time.NewTimer(call.Sleep)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if call.Fail {
		return domain.ErrAuditFailure
	}

	return nil
}

// HTTPAudit calls a real audit endpoint, passing the simulation parameters
// through as sleep and fail query parameters.
type HTTPAudit struct {
	endpoint string
	client   *http.Client
}

func NewHTTPAudit(endpoint string, timeout time.Duration) (*HTTPAudit, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid audit url: %w", err)
	}

	return &HTTPAudit{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (a *HTTPAudit) Call(ctx context.Context, call domain.DependencyCall) error {
	u, err := url.Parse(a.endpoint)
	if err != nil {
		return fmt.Errorf("invalid audit url: %w", err)
	}

	q := u.Query()
	q.Set("sleep", strconv.FormatFloat(call.Sleep.Seconds(), 'f', -1, 64))
	q.Set("fail", strconv.FormatBool(call.Fail))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build audit request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("audit request failed: %w", err)
	}
	defer resp.Body.Close()
	// drain so the keep-alive connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{Service: "audit", StatusCode: resp.StatusCode}
	}

	return nil
}
