package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeDecodeClientEvent(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 123456789, time.UTC)
	event := Event{
		Timestamp: ts,
		Topic:     "client_status_changed",
		Category:  CategoryClient,
		ClientID:  "client_1a2b3c4d",
		DeviceID:  2,
		Client: &ClientEvent{
			Origin:         "10.0.0.1",
			Status:         "active",
			PreviousStatus: "connected",
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v (nanoseconds must survive)", decoded.Timestamp, ts)
	}
	if decoded.ClientID != event.ClientID || decoded.DeviceID != 2 {
		t.Errorf("ids: got %q/%d", decoded.ClientID, decoded.DeviceID)
	}
	if decoded.Client == nil || decoded.Client.PreviousStatus != "connected" {
		t.Errorf("Client payload not preserved: %+v", decoded.Client)
	}
	if decoded.Device != nil || decoded.Input != nil {
		t.Error("unset payloads must stay nil")
	}
}

func TestEncodeUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{Topic: "device_created"})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if bytes.Contains(data, []byte("Topic")) {
		t.Error("field names leaked into the encoding")
	}
}

func TestDecodeSkipsUnknownKeys(t *testing.T) {
	raw := map[int]any{
		2:  "device_released",
		3:  uint8(CategoryDevice),
		99: "from a newer writer",
	}
	data, err := journalEncMode.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	ev, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if ev.Topic != "device_released" || ev.Category != CategoryDevice {
		t.Errorf("got %+v", ev)
	}
}

func TestCategoryNames(t *testing.T) {
	for _, c := range []Category{CategoryClient, CategoryDevice, CategoryInput} {
		parsed, ok := ParseCategory(c.String())
		if !ok || parsed != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), parsed, ok)
		}
	}
	if _, ok := ParseCategory("BOGUS"); ok {
		t.Error("ParseCategory accepted an unknown name")
	}
	if Category(9).String() != "UNKNOWN" {
		t.Error("unknown category name")
	}
}
