package input

// Button identifies a digital gamepad button.
type Button uint8

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonBack
	ButtonStart
	ButtonGuide
	ButtonThumbL
	ButtonThumbR
	ButtonShoulderL
	ButtonShoulderR
)

var buttonNames = map[Button]string{
	ButtonA:         "BtnA",
	ButtonB:         "BtnB",
	ButtonX:         "BtnX",
	ButtonY:         "BtnY",
	ButtonBack:      "BtnBack",
	ButtonStart:     "BtnStart",
	ButtonGuide:     "BtnGuide",
	ButtonThumbL:    "BtnThumbL",
	ButtonThumbR:    "BtnThumbR",
	ButtonShoulderL: "BtnShoulderL",
	ButtonShoulderR: "BtnShoulderR",
}

var buttonsByName = invert(buttonNames)

// String returns the wire name of the button (e.g. "BtnA").
func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseButton resolves a wire button name.
func ParseButton(name string) (Button, bool) {
	b, ok := buttonsByName[name]
	return b, ok
}

// Buttons returns every known button in declaration order.
func Buttons() []Button {
	return []Button{
		ButtonA, ButtonB, ButtonX, ButtonY,
		ButtonBack, ButtonStart, ButtonGuide,
		ButtonThumbL, ButtonThumbR,
		ButtonShoulderL, ButtonShoulderR,
	}
}

// Axis identifies an analog control.
type Axis uint8

const (
	AxisUnknown Axis = iota
	AxisLeftX
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerL
	AxisTriggerR
)

var axisNames = map[Axis]string{
	AxisLeftX:    "AxisLx",
	AxisLeftY:    "AxisLy",
	AxisRightX:   "AxisRx",
	AxisRightY:   "AxisRy",
	AxisTriggerL: "TriggerL",
	AxisTriggerR: "TriggerR",
}

var axesByName = invert(axisNames)

// String returns the wire name of the axis (e.g. "AxisLx").
func (a Axis) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseAxis resolves a wire axis name.
func ParseAxis(name string) (Axis, bool) {
	a, ok := axesByName[name]
	return a, ok
}

// Vertical reports whether the axis is a stick's Y axis.
func (a Axis) Vertical() bool {
	return a == AxisLeftY || a == AxisRightY
}

// Trigger reports whether the axis is an analog trigger.
// Triggers are unipolar: their input range is [0, 1].
func (a Axis) Trigger() bool {
	return a == AxisTriggerL || a == AxisTriggerR
}

// AllAxes returns every known axis in declaration order.
func AllAxes() []Axis {
	return []Axis{AxisLeftX, AxisLeftY, AxisRightX, AxisRightY, AxisTriggerL, AxisTriggerR}
}

// Direction is a discrete D-pad state.
type Direction uint8

const (
	DirOff Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var directionNames = map[Direction]string{
	DirOff:   "off",
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

var directionsByName = invert(directionNames)

// D-pad buttons as browsers report them.
var dpadButtons = map[string]Direction{
	"Dpad_Up":    DirUp,
	"Dpad_Down":  DirDown,
	"Dpad_Left":  DirLeft,
	"Dpad_Right": DirRight,
}

// String returns the direction name.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDirection resolves a direction name ("off", "up", ...).
func ParseDirection(name string) (Direction, bool) {
	d, ok := directionsByName[name]
	return d, ok
}

// ParseDPadButton resolves a D-pad button name such as "Dpad_Left".
func ParseDPadButton(name string) (Direction, bool) {
	d, ok := dpadButtons[name]
	return d, ok
}

// XY returns the signed pair for the direction. Y is positive-up.
func (d Direction) XY() (x, y int8) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// KnownControl reports whether name is a button, axis or D-pad button name.
func KnownControl(name string) bool {
	if _, ok := buttonsByName[name]; ok {
		return true
	}
	if _, ok := axesByName[name]; ok {
		return true
	}
	_, ok := dpadButtons[name]
	return ok
}

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
