package input

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"button", ButtonEvent("c", "BtnA", true), false},
		{"button without control", Event{Kind: KindButton}, true},
		{"axis", AxisEvent("c", "AxisLx", 0.5), false},
		{"axis out of range is clamped later", AxisEvent("c", "AxisLx", 7), false},
		{"axis NaN", AxisEvent("c", "AxisLx", math.NaN()), true},
		{"axis Inf", AxisEvent("c", "AxisLx", math.Inf(-1)), true},
		{"dpad direction", DPadEvent("c", DirLeft), false},
		{"dpad xy", DPadXYEvent("c", 1, -1), false},
		{"dpad xy out of range", DPadXYEvent("c", 2, 0), true},
		{"dpad bad direction", Event{Kind: KindDPad, Direction: Direction(42)}, true},
		{"unknown kind", Event{Kind: Kind(9)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventDPadXY(t *testing.T) {
	x, y := DPadEvent("c", DirUp).DPadXY()
	assert.Equal(t, int8(0), x)
	assert.Equal(t, int8(1), y)

	x, y = DPadXYEvent("c", -1, -1).DPadXY()
	assert.Equal(t, int8(-1), x)
	assert.Equal(t, int8(-1), y)
}

func TestButtonEventValue(t *testing.T) {
	assert.Equal(t, 1.0, ButtonEvent("c", "BtnB", true).Value)
	assert.Equal(t, 0.0, ButtonEvent("c", "BtnB", false).Value)
	assert.Equal(t, "BUTTON", KindButton.String())
}

func TestFrameEvents(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("Axes", func(t *testing.T) {
		f := Frame{
			Type: "axis",
			Axes: &Axes{
				LeftStick:  &Stick{X: 0.5, Y: -0.5},
				RightStick: &Stick{X: -1, Y: 1},
			},
		}
		events := f.Events("client_1", now)
		require.Len(t, events, 4)

		assert.Equal(t, "AxisLx", events[0].Control)
		assert.Equal(t, 0.5, events[0].Value)
		assert.Equal(t, "AxisLy", events[1].Control)
		assert.Equal(t, -0.5, events[1].Value)
		assert.Equal(t, "AxisRx", events[2].Control)
		assert.Equal(t, "AxisRy", events[3].Control)
		for _, ev := range events {
			assert.Equal(t, KindAxis, ev.Kind)
			assert.Equal(t, "client_1", ev.ClientID)
			assert.Equal(t, now, ev.Timestamp)
		}
	})

	t.Run("ButtonsKeepOrderAndSkipUnknown", func(t *testing.T) {
		f := Frame{
			Type: "buttons",
			Buttons: []ButtonState{
				{Name: "BtnA", Pressed: true},
				{Name: "Mystery", Pressed: true},
				{Name: "Dpad_Up", Pressed: true},
				{Name: "TriggerL", Pressed: true, Value: 0.25},
			},
		}
		events := f.Events("client_1", now)
		require.Len(t, events, 3)
		assert.Equal(t, "BtnA", events[0].Control)
		assert.Equal(t, 1.0, events[0].Value)
		assert.Equal(t, "Dpad_Up", events[1].Control)
		assert.Equal(t, "TriggerL", events[2].Control)
		assert.Equal(t, 0.25, events[2].Value)
	})

	t.Run("AxesIgnoredForButtonFrames", func(t *testing.T) {
		f := Frame{Type: "buttons", Axes: &Axes{LeftStick: &Stick{X: 1}}}
		assert.Empty(t, f.Events("c", now))
	})

	t.Run("ClientTimestamp", func(t *testing.T) {
		f := Frame{Type: "buttons", Timestamp: 1700000001.5, Buttons: []ButtonState{{Name: "BtnB"}}}
		events := f.Events("c", now)
		require.Len(t, events, 1)
		assert.Equal(t, int64(1700000001), events[0].Timestamp.Unix())
		assert.InDelta(t, 5e8, events[0].Timestamp.Nanosecond(), 1e3)
	})
}
