package shell

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the registry all collectors of readygate are registered at
type Metrics interface {
	GetRegistry() *prometheus.Registry
}

type PrometheusMetrics struct {
	registry *prometheus.Registry
}

// NewMetrics initializes the registry with the go and process collectors
// and the given collectors
func NewMetrics(cs ...prometheus.Collector) Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(cs...)

	return &PrometheusMetrics{registry: registry}
}

// GetRegistry returns the registry to register prometheus metrics
func (m *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}
