package app

import (
	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/pkg/logging"
)

// NewLogger builds the process logger from config and installs it as the
// package default. Verbose and quiet flags win over LOG_LEVEL.
func NewLogger(cfg *Config) *zerolog.Logger {
	level := cfg.LogLevel
	switch {
	case cfg.Quiet:
		level = "error"
	case cfg.Verbose:
		level = "debug"
	}

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:   level,
		Format:  cfg.LogFormat,
		Output:  cfg.LogOutput,
		NoColor: cfg.NoColor,
	})
	logging.SetDefault(logger)
	return logging.Default()
}
