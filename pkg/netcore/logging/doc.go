// Package logging provides centralized structured logging configuration and
// utilities for netplay.
//
// It wraps logrus to provide consistent logging across the server, client,
// and transport subsystems. It supports environment-based configuration and
// per-subsystem contextual loggers.
//
// # Configuration
//
// The logger can be configured via environment variables:
//   - LOG_LEVEL: minimum log level (debug, info, warn, error, fatal). Default: info
//   - LOG_FORMAT: output format (json, text). Default: text
//
// # Usage
//
//	logger := logging.NewLoggerFromEnv()
//	serverLog := logging.ServerLogger(logger)
//	serverLog.WithField("clientID", id).Info("client joined")
//
// # Performance
//
// Avoid logging above Debug level in per-tick hot paths (prediction,
// interpolation lookup, input processing). Guard expensive field
// construction with logger.IsLevelEnabled(logrus.DebugLevel).
package logging
