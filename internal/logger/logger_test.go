package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	Logger = slog.New(slog.NewTextHandler(&buf, nil))
	defer func() { Logger = nil }()

	log := With("run", "abc123", "component", "pipeline")
	log.Info("run starting")

	out := buf.String()
	if !strings.Contains(out, "run=abc123") {
		t.Errorf("expected run attribute in output, got %q", out)
	}
	if !strings.Contains(out, "component=pipeline") {
		t.Errorf("expected component attribute in output, got %q", out)
	}
}

func TestWithInitializesGlobal(t *testing.T) {
	Logger = nil

	if With("k", "v") == nil {
		t.Fatal("expected a usable logger")
	}
	if Logger == nil {
		t.Fatal("expected the global logger to be initialized")
	}
}
