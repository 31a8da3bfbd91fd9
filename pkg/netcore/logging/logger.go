package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the minimum log level.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	JSONFormat LogFormat = "json"
	TextFormat LogFormat = "text"
)

// Config holds logger configuration.
type Config struct {
	// Level sets the minimum log level.
	Level LogLevel

	// Format sets the output format (json or text).
	Format LogFormat

	// AddCaller adds file and line number to log entries.
	AddCaller bool

	// EnableColor enables colored output for text format.
	EnableColor bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:       InfoLevel,
		Format:      TextFormat,
		AddCaller:   false,
		EnableColor: true,
	}
}

// NewLogger creates a new configured logger instance.
func NewLogger(config Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLogLevel(config.Level))

	switch config.Format {
	case JSONFormat:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "caller",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
			ForceColors:     config.EnableColor,
			DisableColors:   !config.EnableColor,
		})
	}

	logger.SetReportCaller(config.AddCaller)
	logger.SetOutput(os.Stdout)

	return logger
}

// NewLoggerFromEnv creates a logger configured from LOG_LEVEL/LOG_FORMAT.
func NewLoggerFromEnv() *logrus.Logger {
	config := DefaultConfig()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Level = LogLevel(strings.ToLower(level))
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Format = LogFormat(strings.ToLower(format))
	}

	return NewLogger(config)
}

func parseLogLevel(level LogLevel) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// ServerLogger returns a logger entry tagged for the server subsystem.
func ServerLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "server")
}

// ClientLogger returns a logger entry tagged for the client subsystem.
func ClientLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "client")
}

// SessionLogger returns a logger entry tagged for session lifecycle events.
func SessionLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "session")
}

// ReconcileLogger returns a logger entry tagged for reconciliation events.
func ReconcileLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "reconcile")
}

// InterpolationLogger returns a logger entry tagged for interpolation events.
func InterpolationLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "interpolation")
}

// TransportLogger returns a logger entry tagged for transport events.
func TransportLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("subsystem", "transport")
}
