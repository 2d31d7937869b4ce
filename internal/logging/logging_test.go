package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("info", &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("server started")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "server started") {
		t.Errorf("output = %q, want INFO entry", out)
	}
	if !strings.Contains(out, "logging_test.go") {
		t.Errorf("output = %q, want caller", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	logger, closeFile, err := NewFile("warn", path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("reconnecting")
	_ = logger.Sync()
	if err := closeFile(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "WARN") {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("log file contains colour codes: %q", data)
	}

	if _, _, err := NewFile("warn", filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected error for missing directory")
	}
}
