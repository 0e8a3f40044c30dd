package readiness

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Observer = (*Metrics)(nil)

// Metrics exports the probe results as prometheus metrics
type Metrics struct {
	status   *prometheus.GaugeVec
	duration *prometheus.GaugeVec
}

// NewMetrics initializes the probe metric collectors
func NewMetrics() *Metrics {
	return &Metrics{
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "readygate_probe_status",
				Help: "Result of the readiness probe, 1 if passed, 0 if failed",
			},
			[]string{
				"probe",
			},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "readygate_probe_duration_seconds",
				Help: "Duration of the last readiness probe in seconds",
			},
			[]string{
				"probe",
			},
		),
	}
}

// Observe records the result of a probe. Skipped probes are removed.
func (m *Metrics) Observe(_ context.Context, probe string, res ProbeResult) {
	if res.Skipped {
		m.status.DeleteLabelValues(probe)
		m.duration.DeleteLabelValues(probe)
		return
	}
	state := 0.0
	if res.Passed {
		state = 1
	}
	m.status.WithLabelValues(probe).Set(state)
	m.duration.WithLabelValues(probe).Set(res.Duration.Seconds())
}

// Collectors returns all metric collectors of the checker
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.status,
		m.duration,
	}
}
