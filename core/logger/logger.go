package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		if cfg.Level != "" {
			lvl, err := zapcore.ParseLevel(cfg.Level)
			if err != nil {
				return nil, err
			}
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	// Feature output may go to stdout; keep logs on stderr.
	config.OutputPaths = []string{"stderr"}

	logger, err = config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// WithRunID returns a logger with the run_id field set.
func WithRunID(l *zap.Logger, runID string) *zap.Logger {
	if runID == "" {
		return l
	}
	return l.With(zap.String("run_id", runID))
}
