// Package logging provides the structured logger shared by every adapter
// (TelemetryParser, Rcon, ProcessSupervisor) so startup narration and
// per-record error disposition share one configured sink instead of
// fmt.Println/log.Fatalf calls scattered across the module.
package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with the service name that tagged every entry.
type Logger struct {
	*logrus.Logger
	service string
}

// New builds a Logger for service, at the given level ("debug", "info",
// "warn", "error", ...) and format ("json" or "text").
func New(service, level, format string) *Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	logger.SetOutput(os.Stdout)

	return &Logger{Logger: logger, service: service}
}

// NewNop builds a Logger whose output is discarded, for tests that don't
// want the controller's own log noise.
func NewNop() *Logger {
	logger := logrus.New()
	logger.SetOutput(nopWriter{})
	return &Logger{Logger: logger, service: "test"}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// With returns an Entry tagged with this logger's service name plus any
// extra fields, the entry point every component should log through.
func (l *Logger) With(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["service"] = l.service
	return l.Logger.WithFields(fields)
}
