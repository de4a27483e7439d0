package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupWriterJSON(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	SetupWriter(&buf)
	For("grid").Debug("cells_built", "count", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "grid" || entry["msg"] != "cells_built" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestSetupWriterLevel(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	l := SetupWriter(&buf)
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}
