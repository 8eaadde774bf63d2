package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RconMetricsCollector handles remote_call metrics for internal/adapters/rcon.
type RconMetricsCollector struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	rateLimitWait *prometheus.HistogramVec
}

// NewRconMetricsCollector creates a new Rcon metrics collector.
func NewRconMetricsCollector() *RconMetricsCollector {
	return &RconMetricsCollector{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rcon_calls_total",
				Help:      "Total number of Rcon remote_call invocations by function and status",
			},
			[]string{"function", "status"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rcon_call_duration_seconds",
				Help:      "Rcon remote_call round-trip duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"function"},
		),
		rateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rcon_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the remote_call rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"function"},
		),
	}
}

// Register registers all Rcon metrics with the Prometheus registry.
func (c *RconMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}

	metrics := []prometheus.Collector{
		c.callsTotal,
		c.callDuration,
		c.rateLimitWait,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordRemoteCall records a completed remote_call invocation.
func (c *RconMetricsCollector) RecordRemoteCall(function string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.callsTotal.WithLabelValues(function, status).Inc()
	c.callDuration.WithLabelValues(function).Observe(duration)
}

// RecordRateLimitWait records time spent blocked on the remote_call rate
// limiter before a call was issued.
func (c *RconMetricsCollector) RecordRateLimitWait(function string, duration float64) {
	c.rateLimitWait.WithLabelValues(function).Observe(duration)
}
