package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "factoriobot"
	// Subsystem for controller metrics
	subsystem = "controller"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalTaskCollector is the singleton task execution metrics collector
	// Set by SetGlobalTaskCollector() when metrics are enabled
	globalTaskCollector TaskMetricsRecorder

	// globalRconCollector is the singleton Rcon call metrics collector
	// Set by SetGlobalRconCollector() when metrics are enabled
	globalRconCollector RconMetricsRecorder
)

// TaskMetricsRecorder defines the interface for recording taskexec.Executor
// node dispatch events. This interface is used by application code so it
// never needs to import this package's concrete Prometheus types directly.
type TaskMetricsRecorder interface {
	RecordNodeDispatch(taskKind string, duration float64, success bool)
}

// RconMetricsRecorder defines the interface for recording Rcon remote_call
// events.
type RconMetricsRecorder interface {
	RecordRemoteCall(function string, duration float64, success bool)
	RecordRateLimitWait(function string, duration float64)
}

// InitRegistry initializes the Prometheus registry. Should be called once
// at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry. Returns nil if
// metrics are not initialized.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled.
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalTaskCollector sets the global task metrics collector.
func SetGlobalTaskCollector(collector TaskMetricsRecorder) {
	globalTaskCollector = collector
}

// RecordNodeDispatch records a taskexec node dispatch globally.
func RecordNodeDispatch(taskKind string, duration float64, success bool) {
	if globalTaskCollector != nil {
		globalTaskCollector.RecordNodeDispatch(taskKind, duration, success)
	}
}

// SetGlobalRconCollector sets the global Rcon metrics collector.
func SetGlobalRconCollector(collector RconMetricsRecorder) {
	globalRconCollector = collector
}

// RecordRemoteCall records an Rcon remote_call completion globally.
func RecordRemoteCall(function string, duration float64, success bool) {
	if globalRconCollector != nil {
		globalRconCollector.RecordRemoteCall(function, duration, success)
	}
}

// RecordRateLimitWait records time spent waiting for the Rcon rate limiter
// globally.
func RecordRateLimitWait(function string, duration float64) {
	if globalRconCollector != nil {
		globalRconCollector.RecordRateLimitWait(function, duration)
	}
}
