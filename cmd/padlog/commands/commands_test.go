package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/log"
)

func createTestJournal(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	return []log.Event{
		{
			Timestamp: ts,
			Topic:     "client_connected",
			Category:  log.CategoryClient,
			ClientID:  "client_0a1b2c3d",
			Client:    &log.ClientEvent{Origin: "192.168.1.20", ProfileName: "Couch", Status: "connected"},
		},
		{
			Timestamp: ts.Add(10 * time.Millisecond),
			Topic:     "device_created",
			Category:  log.CategoryDevice,
			ClientID:  "client_0a1b2c3d",
			DeviceID:  1,
			Device:    &log.DeviceEvent{Name: "RemoteGamepad-1"},
		},
		{
			Timestamp: ts.Add(time.Second),
			Topic:     "input_received",
			Category:  log.CategoryInput,
			ClientID:  "client_0a1b2c3d",
			DeviceID:  1,
			Input:     &log.InputEvent{Kind: "AXIS", Control: "AxisLx", Value: 0.5},
		},
		{
			Timestamp: ts.Add(2 * time.Second),
			Topic:     "input_received",
			Category:  log.CategoryInput,
			ClientID:  "client_0a1b2c3d",
			DeviceID:  1,
			Input:     &log.InputEvent{Kind: "BUTTON", Control: "BtnA", Pressed: true},
		},
		{
			Timestamp: ts.Add(3 * time.Second),
			Topic:     "client_connected",
			Category:  log.CategoryClient,
			ClientID:  "client_ffff0000",
			Client:    &log.ClientEvent{Origin: "192.168.1.21", Status: "connected"},
		},
		{
			Timestamp: ts.Add(time.Minute),
			Topic:     "clients_cleared",
			Category:  log.CategoryClient,
			Cleared:   &log.ClearedEvent{Count: 2},
		},
	}
}

func TestRunView(t *testing.T) {
	path := createTestJournal(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"2026-03-14T20:00:00.000000Z CLIENT client_connected [client_0a1b2c3d]",
		"Origin: 192.168.1.20",
		"Profile: Couch",
		"device_created [client_0a1b2c3d] [pad:1]",
		"Name: RemoteGamepad-1",
		"AXIS AxisLx 0.500",
		"BUTTON BtnA pressed=true",
		"Cleared: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := createTestJournal(t, sampleEvents())

	filter, err := FilterOptions{ClientID: "client_ffff0000"}.Build()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "client_0a1b2c3d") {
		t.Error("filtered output contains other client")
	}
	if !strings.Contains(out, "192.168.1.21") {
		t.Error("expected second client in output")
	}
}

func TestRunStats(t *testing.T) {
	path := createTestJournal(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total Events: 6",
		"CLIENT:",
		"DEVICE:",
		"INPUT:",
		"input_received:",
		"Gamepads: 1",
		"Clients: 2",
		"[client_0a1b2c3d] 4 events, 2 inputs",
		"Profile: Couch",
		"Gamepad: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	// Clients are listed in order of first appearance.
	if strings.Index(out, "client_0a1b2c3d") > strings.Index(out, "client_ffff0000") {
		t.Error("clients not sorted by first seen")
	}
}

func TestRunStatsEmpty(t *testing.T) {
	path := createTestJournal(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := createTestJournal(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "out.jsonl")

	filter, err := FilterOptions{Topic: "input_received"}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := RunExport(path, "jsonl", output, filter); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, m)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["category"] != "INPUT" {
		t.Errorf("expected category INPUT, got %v", lines[0]["category"])
	}
	if lines[0]["gamepad_id"] != float64(1) {
		t.Errorf("expected gamepad_id 1, got %v", lines[0]["gamepad_id"])
	}
	if _, ok := lines[0]["input"].(map[string]any); !ok {
		t.Errorf("expected input object, got %v", lines[0]["input"])
	}
}

func TestRunExportCSV(t *testing.T) {
	path := createTestJournal(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", output, log.Filter{}); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,topic,category,client_id,gamepad_id,status,control,value" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[3], "AxisLx,0.5") {
		t.Errorf("unexpected input row %q", lines[3])
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := createTestJournal(t, sampleEvents())
	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out"), log.Filter{})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestJournal(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "filtered.cbor")

	filter, err := FilterOptions{Category: "device"}.Build()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RunFilter(path, output, filter, &buf); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary %q", buf.String())
	}

	reader, err := log.NewReader(output)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Device == nil || events[0].Device.Name != "RemoteGamepad-1" {
		t.Errorf("unexpected filtered events %+v", events)
	}
}

func TestFilterOptionsBuild(t *testing.T) {
	tests := []struct {
		name    string
		opts    FilterOptions
		wantErr bool
	}{
		{"Empty", FilterOptions{}, false},
		{"Window", FilterOptions{TimeStart: "2026-03-14T20:00:00Z", TimeEnd: "2026-03-14T21:00:00Z"}, false},
		{"BadStart", FilterOptions{TimeStart: "yesterday"}, true},
		{"BadEnd", FilterOptions{TimeEnd: "tomorrow"}, true},
		{"Category", FilterOptions{Category: "Input"}, false},
		{"BadCategory", FilterOptions{Category: "wire"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Build()
			if (err != nil) != tt.wantErr {
				t.Errorf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
