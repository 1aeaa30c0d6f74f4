package config

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger creates the process logger: JSON lines on w at the configured level.
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvLogLevel, cfg.LogLevel)
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}
