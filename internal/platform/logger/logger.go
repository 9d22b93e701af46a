// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultLogFile is used when logging to stdout is disabled.
const DefaultLogFile = "logs/enterprise.log"

// New returns a JSON logger writing to stdout, or appending to path.
// The returned closer releases the log file, if any.
func New(toStdout bool, path string) (*slog.Logger, io.Closer, error) {
	if toStdout {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})), io.NopCloser(nil), nil
	}
	if path == "" {
		path = DefaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})), f, nil
}

// Setup builds the logger with New and installs it as the slog default.
func Setup(toStdout bool, path string) (io.Closer, error) {
	l, closer, err := New(toStdout, path)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return closer, nil
}
