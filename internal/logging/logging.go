// Package logging builds the application logger. The terminal is owned by
// the UI, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdxmph/tasks-tui/internal/config"
)

// New opens the configured log file and returns a logger writing to it,
// plus the closer for the file. An empty path disables logging.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if cfg.Path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	return NewWithWriter(f, level, cfg.Pretty), f, nil
}

// NewWithWriter returns a logger writing to w at the given level
func NewWithWriter(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	var output io.Writer = w
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.DateTime,
		}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
