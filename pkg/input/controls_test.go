package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonNames(t *testing.T) {
	for _, b := range Buttons() {
		parsed, ok := ParseButton(b.String())
		assert.True(t, ok, "button %s", b)
		assert.Equal(t, b, parsed)
	}

	_, ok := ParseButton("BtnZ")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", ButtonUnknown.String())
}

func TestAxisNames(t *testing.T) {
	axes := AllAxes()
	assert.Len(t, axes, 6)
	for _, a := range axes {
		parsed, ok := ParseAxis(a.String())
		assert.True(t, ok, "axis %s", a)
		assert.Equal(t, a, parsed)
	}

	_, ok := ParseAxis("AxisZ")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", AxisUnknown.String())
}

func TestAxisClassification(t *testing.T) {
	tests := []struct {
		axis     Axis
		vertical bool
		trigger  bool
	}{
		{AxisLeftX, false, false},
		{AxisLeftY, true, false},
		{AxisRightX, false, false},
		{AxisRightY, true, false},
		{AxisTriggerL, false, true},
		{AxisTriggerR, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			assert.Equal(t, tt.vertical, tt.axis.Vertical())
			assert.Equal(t, tt.trigger, tt.axis.Trigger())

			parsed, ok := ParseAxis(tt.axis.String())
			assert.True(t, ok)
			assert.Equal(t, tt.axis, parsed)
		})
	}
}

func TestDirectionXY(t *testing.T) {
	tests := []struct {
		dir  Direction
		x, y int8
	}{
		{DirOff, 0, 0},
		{DirUp, 0, 1},
		{DirDown, 0, -1},
		{DirLeft, -1, 0},
		{DirRight, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			x, y := tt.dir.XY()
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)

			parsed, ok := ParseDirection(tt.dir.String())
			assert.True(t, ok)
			assert.Equal(t, tt.dir, parsed)
		})
	}
}

func TestKnownControl(t *testing.T) {
	assert.True(t, KnownControl("BtnA"))
	assert.True(t, KnownControl("AxisRy"))
	assert.True(t, KnownControl("TriggerL"))
	assert.True(t, KnownControl("Dpad_Left"))
	assert.False(t, KnownControl("Dpad_Diagonal"))
	assert.False(t, KnownControl(""))

	dir, ok := ParseDPadButton("Dpad_Down")
	assert.True(t, ok)
	assert.Equal(t, DirDown, dir)
}
