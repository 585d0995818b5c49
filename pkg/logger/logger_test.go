package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNew_JSONWithServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: DEBUG, Format: JSON, Output: &buf, Service: "scheduler"})

	log.Component("dispatcher").Info("event queued", "meeting_id", "m1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode log record: %v", err)
	}
	if record[SERVICE] != "scheduler" {
		t.Errorf("expected service attr, got %v", record[SERVICE])
	}
	if record[COMPONENT] != "dispatcher" {
		t.Errorf("expected component attr, got %v", record[COMPONENT])
	}
	if record["meeting_id"] != "m1" {
		t.Errorf("expected meeting_id attr, got %v", record["meeting_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{DEBUG, slog.LevelDebug},
		{INFO, slog.LevelInfo},
		{WARN, slog.LevelWarn},
		{ERROR, slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_LevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Format: TEXT, Output: &buf})

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info record to be filtered, got %q", buf.String())
	}

	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("expected warn record to be written")
	}
}
