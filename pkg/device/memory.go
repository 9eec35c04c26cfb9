package device

import (
	"context"
	"errors"
	"sync"

	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

var errDestroyed = errors.New("memory device destroyed")

// WriteKind classifies a recorded write.
type WriteKind uint8

const (
	WriteButton WriteKind = iota
	WriteAxis
	WriteDPad
)

// Write is one recorded call on a MemoryDevice.
type Write struct {
	Kind    WriteKind
	Button  input.Button
	Pressed bool
	Axis    input.Axis
	Value   int32
	X, Y    int8
}

// MemoryBackend creates in-process devices that record every write.
type MemoryBackend struct {
	mu        sync.Mutex
	devices   map[ID]*MemoryDevice
	createErr error
	created   int
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{devices: make(map[ID]*MemoryDevice)}
}

// FailCreate makes every following CreateDevice return err. Pass nil to
// recover.
func (b *MemoryBackend) FailCreate(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createErr = err
}

// CreateDevice implements Backend.
func (b *MemoryBackend) CreateDevice(ctx context.Context, spec Spec) (VirtualDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.createErr != nil {
		return nil, b.createErr
	}
	d := &MemoryDevice{
		spec:    spec,
		buttons: make(map[input.Button]bool),
		axes:    make(map[input.Axis]int32),
	}
	for _, a := range spec.Capabilities.Axes {
		d.axes[a.Axis] = a.Center()
		if a.Axis.Trigger() {
			d.axes[a.Axis] = a.Min
		}
	}
	b.devices[spec.ID] = d
	b.created++
	return d, nil
}

// Device returns the most recent device created with id.
func (b *MemoryBackend) Device(id ID) *MemoryDevice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.devices[id]
}

// Created returns how many devices were created in total.
func (b *MemoryBackend) Created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

// MemoryDevice is a VirtualDevice holding its state in memory.
type MemoryDevice struct {
	mu        sync.Mutex
	spec      Spec
	buttons   map[input.Button]bool
	axes      map[input.Axis]int32
	dpadX     int8
	dpadY     int8
	writes    []Write
	writeErr  error
	destroyed bool
}

var _ VirtualDevice = (*MemoryDevice)(nil)

// WriteButton implements VirtualDevice.
func (d *MemoryDevice) WriteButton(b input.Button, pressed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	d.buttons[b] = pressed
	d.writes = append(d.writes, Write{Kind: WriteButton, Button: b, Pressed: pressed})
	return nil
}

// WriteAxis implements VirtualDevice.
func (d *MemoryDevice) WriteAxis(a input.Axis, value int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	d.axes[a] = value
	d.writes = append(d.writes, Write{Kind: WriteAxis, Axis: a, Value: value})
	return nil
}

// WriteDPad implements VirtualDevice.
func (d *MemoryDevice) WriteDPad(x, y int8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	d.dpadX, d.dpadY = x, y
	d.writes = append(d.writes, Write{Kind: WriteDPad, X: x, Y: y})
	return nil
}

// FailWrites makes every following write return err. Pass nil to recover.
func (d *MemoryDevice) FailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

func (d *MemoryDevice) writable() error {
	if d.destroyed {
		return errDestroyed
	}
	return d.writeErr
}

// Destroy implements VirtualDevice.
func (d *MemoryDevice) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return errDestroyed
	}
	d.destroyed = true
	return nil
}

// Spec returns what the device was created from.
func (d *MemoryDevice) Spec() Spec {
	return d.spec
}

// Button returns the last written state of b.
func (d *MemoryDevice) Button(b input.Button) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttons[b]
}

// Axis returns the last written native value of a.
func (d *MemoryDevice) Axis(a input.Axis) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.axes[a]
}

// DPad returns the last written D-pad pair.
func (d *MemoryDevice) DPad() (x, y int8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dpadX, d.dpadY
}

// Writes returns a copy of every recorded write.
func (d *MemoryDevice) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Write(nil), d.writes...)
}

// Destroyed reports whether Destroy was called.
func (d *MemoryDevice) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}
