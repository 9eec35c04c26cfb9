package input

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput is returned for malformed events.
var ErrInvalidInput = errors.New("invalid input event")

// Kind classifies an input event.
type Kind uint8

const (
	// KindButton is a button edge (press or release).
	KindButton Kind = iota

	// KindAxis is an analog axis movement.
	KindAxis

	// KindDPad is a complete D-pad state.
	KindDPad
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindButton:
		return "BUTTON"
	case KindAxis:
		return "AXIS"
	case KindDPad:
		return "DPAD"
	default:
		return "UNKNOWN"
	}
}

// Event is one normalized unit of input attributed to a client.
type Event struct {
	// ClientID is the owning client session.
	ClientID string

	// Kind selects which of the fields below are meaningful.
	Kind Kind

	// Control is the wire name of the target control ("BtnA", "AxisLy",
	// "Dpad_Up", "TriggerL"). Unused for KindDPad.
	Control string

	// Pressed is the button state for KindButton.
	Pressed bool

	// Value is the axis position for KindAxis, or the analog amount of a
	// trigger reported as a button.
	Value float64

	// Direction is the D-pad state for KindDPad. When DirOff, X and Y are
	// used instead.
	Direction Direction

	// X and Y are the signed D-pad components in {-1, 0, 1}, Y positive-up.
	X, Y int8

	// Timestamp is when the client produced the input.
	Timestamp time.Time
}

// ButtonEvent returns a button edge event.
func ButtonEvent(clientID, control string, pressed bool) Event {
	ev := Event{
		ClientID:  clientID,
		Kind:      KindButton,
		Control:   control,
		Pressed:   pressed,
		Timestamp: time.Now(),
	}
	if pressed {
		ev.Value = 1
	}
	return ev
}

// AxisEvent returns an axis movement event.
func AxisEvent(clientID, control string, value float64) Event {
	return Event{
		ClientID:  clientID,
		Kind:      KindAxis,
		Control:   control,
		Value:     value,
		Timestamp: time.Now(),
	}
}

// DPadEvent returns a D-pad event for a discrete direction.
func DPadEvent(clientID string, dir Direction) Event {
	return Event{
		ClientID:  clientID,
		Kind:      KindDPad,
		Direction: dir,
		Timestamp: time.Now(),
	}
}

// DPadXYEvent returns a D-pad event from independent X/Y components.
func DPadXYEvent(clientID string, x, y int8) Event {
	return Event{
		ClientID:  clientID,
		Kind:      KindDPad,
		X:         x,
		Y:         y,
		Timestamp: time.Now(),
	}
}

// DPadXY returns the signed D-pad pair carried by a KindDPad event.
func (e Event) DPadXY() (x, y int8) {
	if e.Direction != DirOff {
		return e.Direction.XY()
	}
	return e.X, e.Y
}

// Validate checks structural validity. Out-of-range axis values are not an
// error here; the device manager clamps them.
func (e Event) Validate() error {
	switch e.Kind {
	case KindButton:
		if e.Control == "" {
			return fmt.Errorf("%w: button without control", ErrInvalidInput)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return fmt.Errorf("%w: %s value %v", ErrInvalidInput, e.Control, e.Value)
		}
	case KindAxis:
		if e.Control == "" {
			return fmt.Errorf("%w: axis without control", ErrInvalidInput)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return fmt.Errorf("%w: %s value %v", ErrInvalidInput, e.Control, e.Value)
		}
	case KindDPad:
		if _, ok := directionNames[e.Direction]; !ok {
			return fmt.Errorf("%w: direction %d", ErrInvalidInput, e.Direction)
		}
		if !unitStep(e.X) || !unitStep(e.Y) {
			return fmt.Errorf("%w: dpad (%d, %d)", ErrInvalidInput, e.X, e.Y)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidInput, e.Kind)
	}
	return nil
}

func unitStep(v int8) bool {
	return v >= -1 && v <= 1
}
