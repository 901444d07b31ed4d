// Package logger is the process-wide structured logger. Records go to the
// console, or to a writer installed with Intercept, and to an optional
// rotating log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Stdout  bool
	File    string

	// Rotation settings for File. Zero values use lumberjack defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// sinks is everything the active slog.Logger is built from.
type sinks struct {
	cfg       Config
	ready     bool // Init has run at least once
	file      *lumberjack.Logger
	intercept io.Writer
}

var (
	mu    sync.RWMutex
	state sinks
	out   *slog.Logger // nil drops every record
)

// Init applies cfg, replacing any previous configuration. A relative File is
// resolved against configDir. When the log file cannot be opened the error
// is returned and logging continues on the console.
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	state.closeFile()
	state.cfg = cfg
	state.ready = true

	var err error
	if cfg.Enabled && cfg.File != "" {
		state.file, err = openRotating(cfg, resolvePath(cfg.File, configDir))
	}
	out = state.build()
	return err
}

// Intercept routes console output to w, e.g. the TUI log panel. File output
// is unaffected.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	state.intercept = w
	out = state.build()
}

// Restore undoes Intercept.
func Restore() {
	Intercept(nil)
}

// Close flushes and closes the log file, if any. Later records go to the
// console.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := state.closeFile()
	out = state.build()
	return err
}

func openRotating(cfg Config, path string) (*lumberjack.Logger, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	// lumberjack opens on first write; an empty write surfaces a bad path now.
	if _, err := lj.Write(nil); err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return lj, nil
}

func (s *sinks) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// build assembles a logger from s. It returns nil when logging is disabled.
func (s *sinks) build() *slog.Logger {
	if s.ready && !s.cfg.Enabled {
		return nil
	}

	var w []io.Writer
	switch {
	case s.intercept != nil:
		w = append(w, s.intercept)
	case s.cfg.Stdout || s.file == nil:
		w = append(w, os.Stdout)
	}
	if s.file != nil {
		w = append(w, s.file)
	}

	h := slog.NewTextHandler(io.MultiWriter(w...), &slog.HandlerOptions{Level: parseLevel(s.cfg.Level)})
	return slog.New(h)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { emit(slog.LevelDebug, msg, args) }

// Info logs an info message.
func Info(msg string, args ...any) { emit(slog.LevelInfo, msg, args) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { emit(slog.LevelWarn, msg, args) }

// Error logs an error message.
func Error(msg string, args ...any) { emit(slog.LevelError, msg, args) }

func emit(level slog.Level, msg string, args []any) {
	mu.RLock()
	l := out
	mu.RUnlock()
	if l != nil {
		l.Log(context.Background(), level, msg, args...)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// resolvePath expands a leading "~/" and anchors relative paths at dir.
func resolvePath(path, dir string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
