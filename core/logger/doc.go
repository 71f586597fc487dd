// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). Logs are written to stderr so merged features can
// be streamed to stdout.
//
// # Run Correlation
//
// Every merge run is assigned a RunID. The WithRunID helper attaches it to the
// log entry, ensuring that all logs related to one run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Merge started")
//
//	l := logger.WithRunID(log, runID)
//	l.Warn("Duplicate skipped", zap.String("id", id))
package logger
