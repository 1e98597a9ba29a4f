package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		"JSON":  FormatJSON,
		"text":  FormatText,
		"tint":  FormatText,
		"human": FormatText,
		"auto":  FormatAuto,
		"":      FormatAuto,
		"xml":   FormatAuto,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		def  slog.Level
		want slog.Level
	}{
		{"debug", slog.LevelInfo, slog.LevelDebug},
		{"WARN", slog.LevelInfo, slog.LevelWarn},
		{"error", slog.LevelInfo, slog.LevelError},
		{"", slog.LevelDebug, slog.LevelDebug},
		{"loud", slog.LevelInfo, slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in, tt.def); got != tt.want {
			t.Errorf("ParseLevel(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestNewAutoIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, FormatAuto, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("clipboard synced", "source", ":0")

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("not JSON: %q: %v", line, err)
	}
	if rec["msg"] != "clipboard synced" || rec["source"] != ":0" {
		t.Fatalf("record = %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatText, slog.LevelDebug).Debug("probe", "display", "wayland-0")
	out := buf.String()
	if !strings.Contains(out, "probe") || !strings.Contains(out, "wayland-0") {
		t.Fatalf("text output = %q", out)
	}
	if json.Valid([]byte(strings.TrimSpace(out))) {
		t.Fatal("text format produced JSON")
	}
}
