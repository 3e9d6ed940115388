package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"

	"github.com/pithos-gov/pithos/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return New(os.Stderr, cfg)
}

// New creates a logger writing to w. PITHOS_LOG_LEVEL takes precedence
// over the configured level; debug mode forces debug and keeps timestamps.
func New(w io.Writer, cfg *config.RuntimeConfig) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)
	if val := os.Getenv("PITHOS_LOG_LEVEL"); val != "" {
		level = ParseLevel(val)
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time in non-debug mode for cleaner output
			if a.Key == slog.TimeKey && !cfg.Debug {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shortPath keeps the path below the module root, or the file name
func shortPath(file string) string {
	if idx := strings.Index(file, "pithos/"); idx != -1 {
		return file[idx+len("pithos/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
