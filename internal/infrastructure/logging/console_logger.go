package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger creates a human-readable logger writing to w. Stdout is
// reserved for command output, so callers pass stderr.
func NewConsoleLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(lvl).With().Timestamp().Str("component", "buildcfg").Logger(), nil
}

// ParseLevel maps a settings log level to zerolog; empty means info
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(level)
}
