package input

import (
	"math"
	"time"
)

// Frame is one controller snapshot as submitted by the browser client.
type Frame struct {
	// Type is "axis" when Axes is populated, "buttons" otherwise.
	Type string `json:"type"`

	// ClientID is set by HTTP clients; WebSocket clients are identified by
	// their connection.
	ClientID string `json:"client_id,omitempty"`

	Axes    *Axes         `json:"axes,omitempty"`
	Buttons []ButtonState `json:"buttons,omitempty"`

	// Timestamp is the client clock in fractional Unix seconds.
	Timestamp float64 `json:"timestamp,omitempty"`
}

// Axes carries both sticks.
type Axes struct {
	LeftStick  *Stick `json:"left_stick,omitempty"`
	RightStick *Stick `json:"right_stick,omitempty"`
}

// Stick is a two-axis analog stick in browser convention (up is negative).
type Stick struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ButtonState is the state of one named button in a frame.
type ButtonState struct {
	Name    string  `json:"name"`
	Pressed bool    `json:"pressed"`
	Value   float64 `json:"value"`
}

// Time returns the client timestamp, or fallback when none was sent.
func (f Frame) Time(fallback time.Time) time.Time {
	if f.Timestamp <= 0 {
		return fallback
	}
	sec, frac := math.Modf(f.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Events expands the frame into events for clientID, sticks first (left
// before right, X before Y) followed by buttons in submission order.
// Buttons with names no device understands are skipped.
func (f Frame) Events(clientID string, now time.Time) []Event {
	ts := f.Time(now)
	var events []Event

	if f.Type == "axis" && f.Axes != nil {
		if s := f.Axes.LeftStick; s != nil {
			events = append(events,
				Event{ClientID: clientID, Kind: KindAxis, Control: AxisLeftX.String(), Value: s.X, Timestamp: ts},
				Event{ClientID: clientID, Kind: KindAxis, Control: AxisLeftY.String(), Value: s.Y, Timestamp: ts},
			)
		}
		if s := f.Axes.RightStick; s != nil {
			events = append(events,
				Event{ClientID: clientID, Kind: KindAxis, Control: AxisRightX.String(), Value: s.X, Timestamp: ts},
				Event{ClientID: clientID, Kind: KindAxis, Control: AxisRightY.String(), Value: s.Y, Timestamp: ts},
			)
		}
	}

	for _, b := range f.Buttons {
		if !KnownControl(b.Name) {
			continue
		}
		ev := Event{
			ClientID:  clientID,
			Kind:      KindButton,
			Control:   b.Name,
			Pressed:   b.Pressed,
			Value:     b.Value,
			Timestamp: ts,
		}
		if b.Pressed && ev.Value == 0 {
			ev.Value = 1
		}
		events = append(events, ev)
	}

	return events
}
