package log

import (
	"time"
)

// Event is one journal record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event was published (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Topic is the event bus topic name.
	Topic string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// ClientID is the client the event concerns, if any.
	ClientID string `cbor:"4,keyasint,omitempty"`

	// DeviceID is the device the event concerns, if any.
	DeviceID int `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Client  *ClientEvent  `cbor:"10,keyasint,omitempty"`
	Device  *DeviceEvent  `cbor:"11,keyasint,omitempty"`
	Input   *InputEvent   `cbor:"12,keyasint,omitempty"`
	Cleared *ClearedEvent `cbor:"13,keyasint,omitempty"`
}

// Category classifies journal events.
type Category uint8

const (
	// CategoryClient indicates a client registry event.
	CategoryClient Category = 0
	// CategoryDevice indicates a device allocation event.
	CategoryDevice Category = 1
	// CategoryInput indicates a routed input event.
	CategoryInput Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryClient:
		return "CLIENT"
	case CategoryDevice:
		return "DEVICE"
	case CategoryInput:
		return "INPUT"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory resolves a category name as printed by String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryClient, CategoryDevice, CategoryInput} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// ClientEvent captures the client session at the time of the event.
type ClientEvent struct {
	Origin      string `cbor:"1,keyasint,omitempty"`
	UserAgent   string `cbor:"2,keyasint,omitempty"`
	ProfileName string `cbor:"3,keyasint,omitempty"`
	Status      string `cbor:"4,keyasint"`

	// PreviousStatus is set for status changes.
	PreviousStatus string `cbor:"5,keyasint,omitempty"`

	ConnectedAt time.Time `cbor:"6,keyasint,omitempty"`
}

// DeviceEvent captures a created or released device.
type DeviceEvent struct {
	Name      string    `cbor:"1,keyasint"`
	CreatedAt time.Time `cbor:"2,keyasint,omitempty"`
}

// InputEvent captures one routed input event.
type InputEvent struct {
	Kind    string  `cbor:"1,keyasint"`
	Control string  `cbor:"2,keyasint,omitempty"`
	Value   float64 `cbor:"3,keyasint,omitempty"`
	Pressed bool    `cbor:"4,keyasint,omitempty"`
	X       int8    `cbor:"5,keyasint,omitempty"`
	Y       int8    `cbor:"6,keyasint,omitempty"`

	// ClientTime is the timestamp the client attached to the input.
	ClientTime time.Time `cbor:"7,keyasint,omitempty"`
}

// ClearedEvent captures a bulk teardown.
type ClearedEvent struct {
	Count int `cbor:"1,keyasint"`
}
