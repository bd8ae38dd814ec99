package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInfoWritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "json")
	t.Cleanup(func() { SetOutput(os.Stdout, "info", "json") })

	Info("cover_letter.generated", map[string]any{"request_id": "req-1", "persisted": true})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log json: %v (%q)", err, buf.String())
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["message"] != "cover_letter.generated" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
	if payload["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}

func TestLevelFiltersLowerSeverity(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "error", "json")
	t.Cleanup(func() { SetOutput(os.Stdout, "info", "json") })

	Info("dropped", nil)
	Warn("dropped too", nil)
	Error("kept", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"kept"`) {
		t.Fatalf("unexpected line: %s", lines[0])
	}
}
