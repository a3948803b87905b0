package metrics

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"hello-world/internal/domain"
	"hello-world/internal/infrastructure/logger"
)

const unknownLabel = "unknown"

// Collector keeps three summary families on a private registry, so every
// instance is isolated from the others and from the default registry.
type Collector struct {
	registry     *prometheus.Registry
	selfLatency  *prometheus.SummaryVec
	dbLatency    *prometheus.SummaryVec
	auditLatency *prometheus.SummaryVec
	logger       logger.Logger
}

type Option func(*collectorOptions)

type collectorOptions struct {
	quantiles []float64
	logger    logger.Logger
}

// WithQuantiles adds quantile estimators to every family. The allowed error
// for quantile q is 0.1*(1-q), e.g. 0.5:0.05, 0.9:0.01, 0.99:0.001.
func WithQuantiles(quantiles []float64) Option {
	return func(o *collectorOptions) {
		o.quantiles = quantiles
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *collectorOptions) {
		o.logger = l
	}
}

func NewCollector(serviceName string, opts ...Option) *Collector {
	o := collectorOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	prefix := MetricPrefix(serviceName)
	objectives := objectivesFor(o.quantiles)

	c := &Collector{
		registry: prometheus.NewRegistry(),
		selfLatency: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       prefix + "_duration_seconds",
				Help:       serviceName + " latency request distribution",
				Objectives: objectives,
			},
			[]string{"path", "method", "status_code"},
		),
		dbLatency: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       prefix + "_database_duration_seconds",
				Help:       "database latency request distribution",
				Objectives: objectives,
			},
			[]string{"status_code"},
		),
		auditLatency: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       prefix + "_audit_duration_seconds",
				Help:       "audit srv latency request distribution",
				Objectives: objectives,
			},
			[]string{"status_code"},
		),
		logger: o.logger,
	}

	c.registry.MustRegister(c.selfLatency, c.dbLatency, c.auditLatency)

	return c
}

func objectivesFor(quantiles []float64) map[float64]float64 {
	if len(quantiles) == 0 {
		return nil
	}

	objectives := make(map[float64]float64, len(quantiles))
	for _, q := range quantiles {
		objectives[q] = 0.1 * (1 - q)
	}
	return objectives
}

func (c *Collector) ObserveSelf(path, method string, statusCode int, seconds float64) {
	labels := domain.SelfLabels{
		Path:       labelValue(path),
		Method:     labelValue(strings.ToUpper(method)),
		StatusCode: statusCode,
	}
	c.observe(c.selfLatency, labels.Values(), seconds)
}

func (c *Collector) ObserveDependencyA(statusCode int, seconds float64) {
	c.observe(c.dbLatency, domain.DependencyLabels{StatusCode: statusCode}.Values(), seconds)
}

func (c *Collector) ObserveDependencyB(statusCode int, seconds float64) {
	c.observe(c.auditLatency, domain.DependencyLabels{StatusCode: statusCode}.Values(), seconds)
}

func (c *Collector) observe(vec *prometheus.SummaryVec, values []string, seconds float64) {
	observer, err := vec.GetMetricWithLabelValues(values...)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Dropping observation", slog.Any("labels", values), slog.Any("error", err))
		}
		return
	}

	observer.Observe(duration(seconds))
}

// Export renders every family in the text exposition format. Families come
// out sorted by name and series sorted by label values.
func (c *Collector) Export() ([]byte, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}

	return buf.Bytes(), nil
}

func (c *Collector) ContentType() string {
	return string(expfmt.FmtText)
}

func labelValue(v string) string {
	if v == "" {
		return unknownLabel
	}
	if !utf8.ValidString(v) {
		return strings.ToValidUTF8(v, "\uFFFD")
	}
	return v
}

func duration(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	return seconds
}
