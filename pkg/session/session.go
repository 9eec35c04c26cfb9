package session

import (
	"errors"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
)

// Registry errors.
var (
	ErrCapacityExceeded  = errors.New("maximum clients reached")
	ErrClientExists      = errors.New("client already connected")
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is the lifecycle state of a client session.
type Status uint8

const (
	// StatusConnecting - registration accepted by the transport, not yet admitted.
	StatusConnecting Status = iota

	// StatusConnected - admitted, no input seen yet.
	StatusConnected

	// StatusActive - the client has sent input since connecting.
	StatusActive

	// StatusDisconnected - the client left. Terminal.
	StatusDisconnected

	// StatusError - the session failed. Terminal.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusActive:
		return "active"
	case StatusDisconnected:
		return "disconnected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus returns the status with the given name.
func ParseStatus(name string) (Status, bool) {
	for s := StatusConnecting; s <= StatusError; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDisconnected || s == StatusError
}

// CanTransition reports whether a session may move from s to next.
// Staying in the same status is always allowed.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusError:
		return true
	case StatusConnected:
		return s == StatusConnecting || s == StatusActive
	case StatusActive:
		return s == StatusConnected
	case StatusDisconnected:
		return s == StatusConnected || s == StatusActive || s == StatusConnecting
	default:
		return false
	}
}

// Session is the host-side record of one connected client.
type Session struct {
	// ID is the registry-generated client identifier.
	ID string `json:"client_id"`

	// Origin is the client's network address.
	Origin string `json:"ip_address"`

	// UserAgent is reported by the transport, if known.
	UserAgent string `json:"user_agent,omitempty"`

	// ProfileName is an optional human-readable name.
	ProfileName string `json:"profile_name,omitempty"`

	// ConnectedAt is stamped by AddClient.
	ConnectedAt time.Time `json:"connected_at"`

	// LastInputAt is when input was last routed for this client.
	LastInputAt time.Time `json:"last_input_at,omitzero"`

	Status Status `json:"status"`

	// DeviceID is the bound device, or 0 if none.
	DeviceID device.ID `json:"gamepad_id,omitempty"`
}

// HasDevice reports whether a device is bound.
func (s Session) HasDevice() bool {
	return s.DeviceID != 0
}

// Age returns how long the session has existed at now.
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.ConnectedAt)
}

// StatusChange is the payload of client_status_changed.
type StatusChange struct {
	Session  Session `json:"session"`
	Previous Status  `json:"previous"`
}

// Stats counts sessions by status.
type Stats struct {
	Total        int `json:"total"`
	Connecting   int `json:"connecting"`
	Connected    int `json:"connected"`
	Active       int `json:"active"`
	Disconnected int `json:"disconnected"`
	Error        int `json:"error"`
}
