// Package log defines the shared structured-logging setup and the field
// and component names used across the service.
package log

import (
	"log/slog"
	"os"
)

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
	}
}

// New creates a text-format slog logger tagged with the component name.
func New(config Config) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.Level,
	})
	return slog.New(handler).With(FieldComponent, config.Component)
}

// Setup builds a logger for the component and installs it as the
// process default.
func Setup(component string) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Component = component
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}
