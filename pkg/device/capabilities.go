package device

import "github.com/remotegamepad/remotegamepad-go/pkg/input"

// USB identity reported by created devices (Xbox 360 controller layout).
const (
	DefaultVendorID  uint16 = 0x045e
	DefaultProductID uint16 = 0x028e
	DefaultVersion   uint16 = 0x0110
)

// Native axis ranges.
const (
	StickMin   int32 = -32768
	StickMax   int32 = 32767
	TriggerMin int32 = 0
	TriggerMax int32 = 255
)

// AxisRange is the native integer range of an axis.
type AxisRange struct {
	Min int32
	Max int32
}

// Center returns the midpoint used for the zero input.
func (r AxisRange) Center() int32 {
	return (r.Min + r.Max) / 2
}

// AxisSpec describes one axis exposed by a device.
type AxisSpec struct {
	Axis input.Axis
	AxisRange
}

// Capabilities is the control surface of every device a Manager creates.
type Capabilities struct {
	VendorID  uint16
	ProductID uint16
	Version   uint16

	Buttons []input.Button
	Axes    []AxisSpec
	DPad    bool
}

// DefaultCapabilities returns the standard gamepad layout: eleven buttons,
// two sticks, two analog triggers and a D-pad.
func DefaultCapabilities() Capabilities {
	stick := AxisRange{Min: StickMin, Max: StickMax}
	trigger := AxisRange{Min: TriggerMin, Max: TriggerMax}
	return Capabilities{
		VendorID:  DefaultVendorID,
		ProductID: DefaultProductID,
		Version:   DefaultVersion,
		Buttons:   input.Buttons(),
		Axes: []AxisSpec{
			{input.AxisLeftX, stick},
			{input.AxisLeftY, stick},
			{input.AxisRightX, stick},
			{input.AxisRightY, stick},
			{input.AxisTriggerL, trigger},
			{input.AxisTriggerR, trigger},
		},
		DPad: true,
	}
}

// Range returns the native range of axis a.
func (c Capabilities) Range(a input.Axis) (AxisRange, bool) {
	for _, s := range c.Axes {
		if s.Axis == a {
			return s.AxisRange, true
		}
	}
	return AxisRange{}, false
}

// HasButton reports whether b is exposed.
func (c Capabilities) HasButton(b input.Button) bool {
	for _, have := range c.Buttons {
		if have == b {
			return true
		}
	}
	return false
}
