package device

import "github.com/remotegamepad/remotegamepad-go/pkg/input"

// dpadState holds the four directional buttons of one device.
type dpadState struct {
	up, down, left, right bool
}

func (d *dpadState) press(dir input.Direction, pressed bool) {
	switch dir {
	case input.DirUp:
		d.up = pressed
	case input.DirDown:
		d.down = pressed
	case input.DirLeft:
		d.left = pressed
	case input.DirRight:
		d.right = pressed
	}
}

// set replaces all four states with the given signed pair.
func (d *dpadState) set(x, y int8) {
	d.left, d.right = x < 0, x > 0
	d.down, d.up = y < 0, y > 0
}

// xy resolves the pair; opposing presses cancel.
func (d *dpadState) xy() (x, y int8) {
	return b2i(d.right) - b2i(d.left), b2i(d.up) - b2i(d.down)
}

func b2i(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
