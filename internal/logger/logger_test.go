package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		expected slog.Level
		ok       bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"chatty", slog.LevelInfo, false},
	}
	for _, tc := range testCases {
		got, ok := ParseLevel(tc.name)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v, %v", tc.name, got, ok, tc.expected, tc.ok)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Setup("warn", "json", &buf)
	l.Info("dropped")
	l.Warn("kept", "card_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected exactly one log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "kept" || entry["card_id"] != float64(7) {
		t.Errorf("Unexpected log entry %v", entry)
	}
}

func TestSetupWarnsOnUnknownLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup("chatty", "text", &buf)
	if !strings.Contains(buf.String(), "invalid log level") {
		t.Errorf("Expected a warning about the level, got %q", buf.String())
	}
}
