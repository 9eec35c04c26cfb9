package device

import (
	"context"

	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

// Spec is what a backend is asked to materialize.
type Spec struct {
	ID           ID
	Name         string
	Capabilities Capabilities
}

// Backend creates virtual devices.
type Backend interface {
	// CreateDevice materializes a device. It may block on OS calls and
	// should honor ctx cancellation where it can.
	CreateDevice(ctx context.Context, spec Spec) (VirtualDevice, error)
}

// VirtualDevice is a handle to one created device.
type VirtualDevice interface {
	WriteButton(b input.Button, pressed bool) error

	// WriteAxis writes an already-scaled native value.
	WriteAxis(a input.Axis, value int32) error

	// WriteDPad writes the resolved D-pad pair, y positive-up.
	WriteDPad(x, y int8) error

	Destroy() error
}
