//go:build !linux

package uinput

import (
	"context"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
)

// CreateDevice implements device.Backend.
func (b *Backend) CreateDevice(context.Context, device.Spec) (device.VirtualDevice, error) {
	return nil, device.ErrUnsupported
}
