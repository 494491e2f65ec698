package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"brewlog/internal/platform/config"
)

// New builds the application logger. Output goes to the configured log file so
// terminal output (CLI results, TUI frames) is never interleaved with log lines.
// The returned closer releases the file handle.
func New(cfg config.Config) (hclog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Log.Level)
	if level == hclog.Off {
		return hclog.NewNullLogger(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "brewlog",
		Level:      level,
		Output:     file,
		JSONFormat: false,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger, file, nil
}

// ParseLevel maps a config string to an hclog level; unknown values mean info.
func ParseLevel(raw string) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "off", "none":
		return hclog.Off
	case "":
		return hclog.Info
	}
	level := hclog.LevelFromString(raw)
	if level == hclog.NoLevel {
		return hclog.Info
	}
	return level
}
