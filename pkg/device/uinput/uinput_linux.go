//go:build linux

package uinput

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

// ioctl requests from linux/uinput.h.
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetAbsBit  = 0x40045567
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup   = 0x405c5503
	uiAbsSetup   = 0x401c5504
)

const maxNameSize = 80

// struct uinput_setup
type uinputSetup struct {
	bustype      uint16
	vendor       uint16
	product      uint16
	version      uint16
	name         [maxNameSize]byte
	ffEffectsMax uint32
}

// struct uinput_abs_setup
type uinputAbsSetup struct {
	code       uint16
	_          uint16
	value      int32
	minimum    int32
	maximum    int32
	fuzz       int32
	flat       int32
	resolution int32
}

// CreateDevice implements device.Backend.
func (b *Backend) CreateDevice(ctx context.Context, spec device.Spec) (device.VirtualDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fd, err := unix.Open(b.path(), unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", b.path(), err)
	}

	if err := setup(fd, spec); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &Device{fd: fd, name: spec.Name}, nil
}

func setup(fd int, spec device.Spec) error {
	caps := spec.Capabilities

	if err := unix.IoctlSetInt(fd, uiSetEvBit, int(evKey)); err != nil {
		return fmt.Errorf("UI_SET_EVBIT EV_KEY: %w", err)
	}
	for _, btn := range caps.Buttons {
		code, ok := ButtonCode(btn)
		if !ok {
			continue
		}
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %s: %w", btn, err)
		}
	}

	if err := unix.IoctlSetInt(fd, uiSetEvBit, int(evAbs)); err != nil {
		return fmt.Errorf("UI_SET_EVBIT EV_ABS: %w", err)
	}
	for _, ax := range caps.Axes {
		code, ok := AxisCode(ax.Axis)
		if !ok {
			continue
		}
		if err := absSetup(fd, code, ax.Min, ax.Max); err != nil {
			return fmt.Errorf("UI_ABS_SETUP %s: %w", ax.Axis, err)
		}
	}
	if caps.DPad {
		for _, code := range []uint16{absHat0X, absHat0Y} {
			if err := absSetup(fd, code, -1, 1); err != nil {
				return fmt.Errorf("UI_ABS_SETUP hat: %w", err)
			}
		}
	}

	us := uinputSetup{
		bustype: busUSB,
		vendor:  caps.VendorID,
		product: caps.ProductID,
		version: caps.Version,
	}
	copy(us.name[:maxNameSize-1], spec.Name)
	if err := ioctlPtr(fd, uiDevSetup, unsafe.Pointer(&us)); err != nil {
		return fmt.Errorf("UI_DEV_SETUP: %w", err)
	}
	if err := ioctlPtr(fd, uiDevCreate, nil); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

func absSetup(fd int, code uint16, min, max int32) error {
	if err := unix.IoctlSetInt(fd, uiSetAbsBit, int(code)); err != nil {
		return err
	}
	as := uinputAbsSetup{code: code, minimum: min, maximum: max}
	if min < 0 && max > 1 {
		as.flat = 128
		as.fuzz = 16
	}
	return ioctlPtr(fd, uiAbsSetup, unsafe.Pointer(&as))
}

func ioctlPtr(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Device is one uinput gamepad.
type Device struct {
	mu   sync.Mutex
	fd   int
	name string
}

var _ device.VirtualDevice = (*Device)(nil)

func (d *Device) write(records ...record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return fmt.Errorf("%s: device closed", d.name)
	}
	buf := report(records...)
	n, err := unix.Write(d.fd, buf)
	if err != nil {
		return fmt.Errorf("%s: write: %w", d.name, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%s: short write %d/%d", d.name, n, len(buf))
	}
	return nil
}

// WriteButton implements device.VirtualDevice.
func (d *Device) WriteButton(b input.Button, pressed bool) error {
	code, ok := ButtonCode(b)
	if !ok {
		return fmt.Errorf("%s: no key code for %s", d.name, b)
	}
	var v int32
	if pressed {
		v = 1
	}
	return d.write(record{evKey, code, v})
}

// WriteAxis implements device.VirtualDevice.
func (d *Device) WriteAxis(a input.Axis, value int32) error {
	code, ok := AxisCode(a)
	if !ok {
		return fmt.Errorf("%s: no abs code for %s", d.name, a)
	}
	return d.write(record{evAbs, code, value})
}

// WriteDPad implements device.VirtualDevice. evdev hats are positive-down.
func (d *Device) WriteDPad(x, y int8) error {
	return d.write(
		record{evAbs, absHat0X, int32(x)},
		record{evAbs, absHat0Y, int32(-y)},
	)
}

// Destroy implements device.VirtualDevice.
func (d *Device) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	destroyErr := ioctlPtr(d.fd, uiDevDestroy, nil)
	closeErr := unix.Close(d.fd)
	d.fd = -1
	if destroyErr != nil {
		return fmt.Errorf("UI_DEV_DESTROY: %w", destroyErr)
	}
	return closeErr
}
