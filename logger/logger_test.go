package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesRelativeFileUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Enabled: true, Level: "debug", File: "logs/higenie.log"}, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Intercept(&bytes.Buffer{}) // keep test output quiet
	defer Restore()

	Debug("bridge call issued", "command", "greet")
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", "higenie.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "bridge call issued") || !strings.Contains(string(data), "command=greet") {
		t.Fatalf("log file = %q, want debug line with command attr", data)
	}
}

func TestInterceptAndRestore(t *testing.T) {
	if err := Init(Config{Enabled: true, Level: "info"}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var buf bytes.Buffer
	Intercept(&buf)
	Info("captured")
	Debug("below level")
	Restore()

	out := buf.String()
	if !strings.Contains(out, "captured") {
		t.Fatalf("intercepted output = %q, want captured line", out)
	}
	if strings.Contains(out, "below level") {
		t.Fatalf("intercepted output = %q, debug line should be filtered at info", out)
	}
}

func TestDisabledLoggerStaysSilentWhenIntercepted(t *testing.T) {
	if err := Init(Config{Enabled: false}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: true}, "") })

	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()
	Error("should not appear")

	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInitReportsUnopenableLogFile(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the log directory should be.
	if err := os.WriteFile(filepath.Join(dir, "logs"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	err := Init(Config{Enabled: true, File: "logs/higenie.log"}, dir)
	if err == nil {
		t.Fatal("Init() should report a log file that cannot be opened")
	}
	t.Cleanup(func() { _ = Close() })

	// Logging falls back to the console.
	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()
	Info("still logging")
	if !strings.Contains(buf.String(), "still logging") {
		t.Fatalf("console output = %q, want fallback logging", buf.String())
	}
}
