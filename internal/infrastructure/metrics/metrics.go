package metrics

// Metrics records request latency for the service and its downstream dependencies.
type Metrics interface {
	ObserveSelf(path, method string, statusCode int, seconds float64)
	ObserveDependencyA(statusCode int, seconds float64)
	ObserveDependencyB(statusCode int, seconds float64)
}

// Exporter renders accumulated metrics for a scrape.
type Exporter interface {
	Export() ([]byte, error)
	ContentType() string
}
