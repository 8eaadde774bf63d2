package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TaskMetricsCollector handles taskexec.Executor node dispatch metrics.
type TaskMetricsCollector struct {
	nodeDuration *prometheus.HistogramVec
	nodesTotal   *prometheus.CounterVec
}

// NewTaskMetricsCollector creates a new task metrics collector.
func NewTaskMetricsCollector() *TaskMetricsCollector {
	return &TaskMetricsCollector{
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "task_node_duration_seconds",
				Help:      "Task node dispatch duration distribution",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"task_kind", "status"},
		),
		nodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "task_nodes_total",
				Help:      "Total number of task nodes dispatched by kind and status",
			},
			[]string{"task_kind", "status"},
		),
	}
}

// Register registers all task metrics with the Prometheus registry.
func (c *TaskMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}

	metrics := []prometheus.Collector{
		c.nodeDuration,
		c.nodesTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordNodeDispatch records a task node's dispatch outcome.
func (c *TaskMetricsCollector) RecordNodeDispatch(taskKind string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.nodeDuration.WithLabelValues(taskKind, status).Observe(duration)
	c.nodesTotal.WithLabelValues(taskKind, status).Inc()
}
