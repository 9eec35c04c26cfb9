package device

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

// Defaults applied by NewManager.
const (
	DefaultMaxDevices   = 4
	DefaultNameTemplate = "RemoteGamepad-%d"
)

// Config configures a Manager.
type Config struct {
	// MaxDevices is the maximum number of live devices (default: 4).
	MaxDevices int

	// NameTemplate formats the device name from its ID
	// (default: "RemoteGamepad-%d").
	NameTemplate string

	// Capabilities of every created device (default: DefaultCapabilities).
	Capabilities *Capabilities

	// BackendTimeout bounds Backend.CreateDevice. Zero means no limit.
	BackendTimeout time.Duration

	// Logger is the optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// slot is one live device.
type slot struct {
	mu     sync.Mutex
	info   Info
	dev    VirtualDevice
	dpad   dpadState
	closed bool
}

// reservation holds an ID while its device is being created.
type reservation struct {
	id   ID
	gen  uint64
	done chan struct{}
}

// Manager allocates devices to clients and routes input to them.
type Manager struct {
	mu sync.RWMutex

	// slots and byClient are always updated together under mu.
	slots    map[ID]*slot
	byClient map[string]ID

	// creating counts against capacity until the backend returns.
	creating map[string]*reservation

	// gen is bumped by Cleanup so in-flight creations are discarded.
	gen uint64

	backend Backend
	bus     *eventbus.Bus
	caps    Capabilities
	config  Config
	logger  *slog.Logger

	now func() time.Time
}

// NewManager creates a manager using backend. A nil bus disables event
// publication.
func NewManager(backend Backend, bus *eventbus.Bus, config Config) *Manager {
	if config.MaxDevices <= 0 {
		config.MaxDevices = DefaultMaxDevices
	}
	if config.NameTemplate == "" {
		config.NameTemplate = DefaultNameTemplate
	}
	caps := DefaultCapabilities()
	if config.Capabilities != nil {
		caps = *config.Capabilities
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		slots:    make(map[ID]*slot),
		byClient: make(map[string]ID),
		creating: make(map[string]*reservation),
		backend:  backend,
		bus:      bus,
		caps:     caps,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// MaxDevices returns the configured capacity.
func (m *Manager) MaxDevices() int {
	return m.config.MaxDevices
}

// Capabilities returns the control surface of created devices.
func (m *Manager) Capabilities() Capabilities {
	return m.caps
}

// CreateDevice returns the device bound to clientID, creating one if the
// client has none. The backend is called without holding the manager lock;
// the ID and capacity are reserved beforehand. A concurrent call for the
// same client waits for the first one to finish.
// Returns ErrCapacityExceeded if all devices are in use.
// Returns an error wrapping ErrBackend if the backend refuses.
// Returns ErrReleased if Cleanup ran while the device was being created.
func (m *Manager) CreateDevice(ctx context.Context, clientID string) (ID, error) {
	var r *reservation
	for r == nil {
		m.mu.Lock()
		if id, ok := m.byClient[clientID]; ok {
			m.mu.Unlock()
			return id, nil
		}
		if pending, ok := m.creating[clientID]; ok {
			m.mu.Unlock()
			select {
			case <-pending.done:
				continue
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
		if len(m.slots)+len(m.creating) >= m.config.MaxDevices {
			m.mu.Unlock()
			m.logger.Warn("cannot create device: max devices reached",
				"client", clientID, "max", m.config.MaxDevices)
			return 0, ErrCapacityExceeded
		}
		r = &reservation{id: m.nextFreeID(), gen: m.gen, done: make(chan struct{})}
		m.creating[clientID] = r
		m.mu.Unlock()
	}

	spec := Spec{
		ID:           r.id,
		Name:         fmt.Sprintf(m.config.NameTemplate, int(r.id)),
		Capabilities: m.caps,
	}

	createCtx := ctx
	if m.config.BackendTimeout > 0 {
		var cancel context.CancelFunc
		createCtx, cancel = context.WithTimeout(ctx, m.config.BackendTimeout)
		defer cancel()
	}
	dev, err := m.backend.CreateDevice(createCtx, spec)

	m.mu.Lock()
	delete(m.creating, clientID)
	close(r.done)

	if err != nil {
		m.mu.Unlock()
		m.logger.Error("device creation failed", "client", clientID, "device", r.id, "error", err)
		return 0, fmt.Errorf("%w: create %s: %w", ErrBackend, spec.Name, err)
	}
	if r.gen != m.gen {
		m.mu.Unlock()
		m.logger.Warn("device released during creation", "client", clientID, "device", r.id)
		_ = dev.Destroy()
		return 0, ErrReleased
	}

	info := Info{
		ID:        r.id,
		Name:      spec.Name,
		ClientID:  clientID,
		CreatedAt: m.now(),
	}
	m.slots[r.id] = &slot{info: info, dev: dev}
	m.byClient[clientID] = r.id
	m.mu.Unlock()

	m.logger.Info("device created", "device", r.id, "name", info.Name, "client", clientID)
	m.publish(ctx, eventbus.TopicDeviceCreated, info)
	return r.id, nil
}

// nextFreeID returns the lowest ID neither live nor reserved. Caller
// holds mu.
func (m *Manager) nextFreeID() ID {
	for id := ID(1); ; id++ {
		if _, used := m.slots[id]; used {
			continue
		}
		if m.reserved(id) {
			continue
		}
		return id
	}
}

func (m *Manager) reserved(id ID) bool {
	for _, r := range m.creating {
		if r.id == id {
			return true
		}
	}
	return false
}

// RemoveDevice tears down the device and drops both bindings. It does not
// consult the client registry.
// Returns ErrDeviceNotFound if id is not live.
func (m *Manager) RemoveDevice(ctx context.Context, id ID) error {
	m.mu.Lock()
	s, ok := m.slots[id]
	if !ok {
		m.mu.Unlock()
		return ErrDeviceNotFound
	}
	delete(m.slots, id)
	if owner, bound := m.byClient[s.info.ClientID]; bound && owner == id {
		delete(m.byClient, s.info.ClientID)
	}
	m.mu.Unlock()

	err := m.teardown(s)
	m.publish(ctx, eventbus.TopicDeviceReleased, s.info)
	return err
}

// ReleaseClient removes the device bound to clientID, if any.
func (m *Manager) ReleaseClient(ctx context.Context, clientID string) error {
	id, ok := m.GetDeviceForClient(clientID)
	if !ok {
		return ErrDeviceNotFound
	}
	return m.RemoveDevice(ctx, id)
}

func (m *Manager) teardown(s *slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if err := s.dev.Destroy(); err != nil {
		m.logger.Error("device teardown failed", "device", s.info.ID, "error", err)
		return fmt.Errorf("%w: destroy %s: %w", ErrBackend, s.info.Name, err)
	}
	m.logger.Info("device released", "device", s.info.ID, "client", s.info.ClientID)
	return nil
}

// SendEvent applies ev to device id. Events for a device that is not live
// are logged and dropped without error.
func (m *Manager) SendEvent(ctx context.Context, id ID, ev input.Event) error {
	m.mu.RLock()
	s, ok := m.slots[id]
	m.mu.RUnlock()

	if !ok {
		m.logger.Warn("dropping event for unknown device", "device", id, "client", ev.ClientID)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		m.logger.Warn("dropping event for released device", "device", id, "client", ev.ClientID)
		return nil
	}

	if err := m.dispatch(s, ev); err != nil {
		return fmt.Errorf("device %d: %w", id, err)
	}
	return nil
}

// dispatch translates ev into writes on s. Caller holds s.mu.
func (m *Manager) dispatch(s *slot, ev input.Event) error {
	switch ev.Kind {
	case input.KindButton:
		return m.dispatchButton(s, ev)

	case input.KindAxis:
		axis, ok := input.ParseAxis(ev.Control)
		if !ok {
			return fmt.Errorf("%w: unknown axis %q", input.ErrInvalidInput, ev.Control)
		}
		return m.writeAxis(s, axis, ev.Value)

	case input.KindDPad:
		if err := ev.Validate(); err != nil {
			return err
		}
		s.dpad.set(ev.DPadXY())
		return m.writeDPad(s)

	default:
		return fmt.Errorf("%w: kind %d", input.ErrInvalidInput, ev.Kind)
	}
}

func (m *Manager) dispatchButton(s *slot, ev input.Event) error {
	if dir, ok := input.ParseDPadButton(ev.Control); ok {
		s.dpad.press(dir, ev.Pressed)
		return m.writeDPad(s)
	}

	// Browsers report the analog triggers as buttons with a value.
	if axis, ok := input.ParseAxis(ev.Control); ok && axis.Trigger() {
		v := 0.0
		if ev.Pressed {
			v = ev.Value
			if v == 0 {
				v = 1
			}
		}
		return m.writeAxis(s, axis, v)
	}

	b, ok := input.ParseButton(ev.Control)
	if !ok || !m.caps.HasButton(b) {
		return fmt.Errorf("%w: unknown button %q", input.ErrInvalidInput, ev.Control)
	}
	if err := s.dev.WriteButton(b, ev.Pressed); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

func (m *Manager) writeAxis(s *slot, axis input.Axis, v float64) error {
	r, ok := m.caps.Range(axis)
	if !ok {
		return fmt.Errorf("%w: axis %s not exposed", input.ErrInvalidInput, axis)
	}
	native, err := ScaleAxis(axis, v, r)
	if err != nil {
		return err
	}
	if err := s.dev.WriteAxis(axis, native); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

func (m *Manager) writeDPad(s *slot) error {
	if !m.caps.DPad {
		return fmt.Errorf("%w: device has no dpad", input.ErrInvalidInput)
	}
	x, y := s.dpad.xy()
	if err := s.dev.WriteDPad(x, y); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

// GetDeviceForClient returns the device bound to clientID.
func (m *Manager) GetDeviceForClient(clientID string) (ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byClient[clientID]
	return id, ok
}

// ClientForDevice returns the client bound to id.
func (m *Manager) ClientForDevice(id ID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[id]
	if !ok {
		return "", false
	}
	return s.info.ClientID, true
}

// GetDeviceCount returns the number of live devices.
func (m *Manager) GetDeviceCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

// Free returns the number of devices that can still be created.
// Devices being created count as used.
func (m *Manager) Free() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.MaxDevices - len(m.slots) - len(m.creating)
}

// ListDevices returns a snapshot of live devices ordered by ID.
func (m *Manager) ListDevices() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s.info)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cleanup tears down every live device. Returns the number released.
func (m *Manager) Cleanup(ctx context.Context) int {
	m.mu.Lock()
	slots := make([]*slot, 0, len(m.slots))
	for _, s := range m.slots {
		slots = append(slots, s)
	}
	m.slots = make(map[ID]*slot)
	m.byClient = make(map[string]ID)
	m.gen++
	m.mu.Unlock()

	sort.Slice(slots, func(i, j int) bool { return slots[i].info.ID < slots[j].info.ID })
	for _, s := range slots {
		_ = m.teardown(s)
		m.publish(ctx, eventbus.TopicDeviceReleased, s.info)
	}
	if len(slots) > 0 {
		m.logger.Info("all devices released", "count", len(slots))
	}
	return len(slots)
}

func (m *Manager) publish(ctx context.Context, topic eventbus.Topic, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(ctx, topic, payload)
}
