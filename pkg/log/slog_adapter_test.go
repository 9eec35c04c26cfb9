package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterClientEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		Topic:     "client_status_changed",
		Category:  CategoryClient,
		ClientID:  "client_1",
		Client:    &ClientEvent{Origin: "10.0.0.1", Status: "active", PreviousStatus: "connected"},
	})

	checks := map[string]any{
		"msg":             "journal",
		"topic":           "client_status_changed",
		"category":        "CLIENT",
		"client":          "client_1",
		"origin":          "10.0.0.1",
		"status":          "active",
		"previous_status": "connected",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: got %v, want %v", k, entry[k], want)
		}
	}
	if _, ok := entry["device"]; ok {
		t.Error("device attribute logged for an unbound client")
	}
}

func TestSlogAdapterInputEvents(t *testing.T) {
	entry := logJSON(t, Event{
		Topic:    "input_received",
		Category: CategoryInput,
		DeviceID: 3,
		Input:    &InputEvent{Kind: "AXIS", Control: "AxisLx", Value: 0.5},
	})
	if entry["device"] != float64(3) || entry["control"] != "AxisLx" || entry["value"] != 0.5 {
		t.Errorf("axis entry: %v", entry)
	}

	entry = logJSON(t, Event{
		Topic:    "input_received",
		Category: CategoryInput,
		Input:    &InputEvent{Kind: "DPAD", X: -1, Y: 1},
	})
	if entry["x"] != float64(-1) || entry["y"] != float64(1) {
		t.Errorf("dpad entry: %v", entry)
	}
}

func TestSlogAdapterCleared(t *testing.T) {
	entry := logJSON(t, Event{Topic: "clients_cleared", Cleared: &ClearedEvent{Count: 4}})
	if entry["count"] != float64(4) {
		t.Errorf("count: got %v", entry["count"])
	}
}
