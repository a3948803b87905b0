package domain

import (
	"strconv"
	"time"
)

// SelfLabels identifies one series of the service's own request latency.
type SelfLabels struct {
	Path       string
	Method     string
	StatusCode int
}

func (l SelfLabels) Values() []string {
	return []string{l.Path, l.Method, strconv.Itoa(l.StatusCode)}
}

// DependencyLabels identifies one series of a downstream dependency latency.
type DependencyLabels struct {
	StatusCode int
}

func (l DependencyLabels) Values() []string {
	return []string{strconv.Itoa(l.StatusCode)}
}

// DependencyCall describes one simulated call to a downstream dependency.
type DependencyCall struct {
	Sleep time.Duration
	Fail  bool
}

type ComplexRequest struct {
	Database DependencyCall
	Audit    DependencyCall
}

type ComplexResponse struct {
	Status          string  `json:"status"`
	DatabaseSeconds float64 `json:"database_seconds"`
	AuditSeconds    float64 `json:"audit_seconds"`
}

// DependencyResult is what a caller reports after every dependency attempt.
type DependencyResult struct {
	StatusCode int
	Duration   time.Duration
	Err        error
}
