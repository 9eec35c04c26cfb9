package uinput

import "github.com/remotegamepad/remotegamepad-go/pkg/input"

// Event types and codes from linux/input-event-codes.h.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03

	synReport uint16 = 0x00

	btnSouth  uint16 = 0x130
	btnEast   uint16 = 0x131
	btnNorth  uint16 = 0x133
	btnWest   uint16 = 0x134
	btnTL     uint16 = 0x136
	btnTR     uint16 = 0x137
	btnSelect uint16 = 0x13a
	btnStart  uint16 = 0x13b
	btnMode   uint16 = 0x13c
	btnThumbL uint16 = 0x13d
	btnThumbR uint16 = 0x13e

	absX     uint16 = 0x00
	absY     uint16 = 0x01
	absZ     uint16 = 0x02
	absRX    uint16 = 0x03
	absRY    uint16 = 0x04
	absRZ    uint16 = 0x05
	absHat0X uint16 = 0x10
	absHat0Y uint16 = 0x11

	busUSB uint16 = 0x03
)

var buttonCodes = map[input.Button]uint16{
	input.ButtonA:         btnSouth,
	input.ButtonB:         btnEast,
	input.ButtonX:         btnNorth,
	input.ButtonY:         btnWest,
	input.ButtonShoulderL: btnTL,
	input.ButtonShoulderR: btnTR,
	input.ButtonBack:      btnSelect,
	input.ButtonStart:     btnStart,
	input.ButtonGuide:     btnMode,
	input.ButtonThumbL:    btnThumbL,
	input.ButtonThumbR:    btnThumbR,
}

var axisCodes = map[input.Axis]uint16{
	input.AxisLeftX:    absX,
	input.AxisLeftY:    absY,
	input.AxisRightX:   absRX,
	input.AxisRightY:   absRY,
	input.AxisTriggerL: absZ,
	input.AxisTriggerR: absRZ,
}

// ButtonCode returns the evdev key code for b.
func ButtonCode(b input.Button) (uint16, bool) {
	c, ok := buttonCodes[b]
	return c, ok
}

// AxisCode returns the evdev absolute axis code for a.
func AxisCode(a input.Axis) (uint16, bool) {
	c, ok := axisCodes[a]
	return c, ok
}
