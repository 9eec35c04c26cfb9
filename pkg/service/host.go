package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
	"github.com/remotegamepad/remotegamepad-go/pkg/version"
)

// Host coordinates the client registry and the device manager.
type Host struct {
	mu sync.RWMutex

	config HostConfig
	logger *slog.Logger
	state  ServiceState

	bus      *eventbus.Bus
	registry *session.Registry
	devices  *device.Manager

	// subs are the host's own bus subscriptions, dropped on Stop.
	subs []eventbus.SubscriptionID

	ctx       context.Context
	cancel    context.CancelFunc
	reaper    sync.WaitGroup
	startedAt time.Time

	now func() time.Time
}

// NewHost creates a host that creates its devices through backend.
func NewHost(backend device.Backend, config HostConfig) (*Host, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	bus := eventbus.New(config.Logger)
	h := &Host{
		config: config,
		logger: config.Logger,
		state:  StateIdle,
		bus:    bus,
		registry: session.NewRegistry(bus, session.Config{
			MaxClients: config.MaxClients,
			Logger:     config.Logger,
		}),
		devices: device.NewManager(backend, bus, device.Config{
			MaxDevices:     config.MaxDevices,
			NameTemplate:   config.DeviceNameTemplate,
			Capabilities:   config.Capabilities,
			BackendTimeout: config.BackendTimeout,
			Logger:         config.Logger,
		}),
		now: time.Now,
	}
	return h, nil
}

// State returns the current service state.
func (h *Host) State() ServiceState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Bus returns the event bus shared by the registry and the device manager.
// Subscribers attached before Start observe every lifecycle event.
func (h *Host) Bus() *eventbus.Bus {
	return h.bus
}

// Start starts the host. A stopped host cannot be restarted because its
// bus is closed.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.state != StateIdle {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.state = StateStarting
	h.mu.Unlock()

	h.ctx, h.cancel = context.WithCancel(ctx)

	sub := h.bus.Subscribe(eventbus.TopicClientDisconnected, h.onClientDisconnected)

	if h.config.ReaperInterval > 0 {
		h.reaper.Add(1)
		go h.runReaper()
	}

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.startedAt = h.now()
	h.state = StateRunning
	h.mu.Unlock()

	h.debugLog("host started",
		"maxClients", h.config.MaxClients,
		"maxDevices", h.config.MaxDevices)
	return nil
}

// Stop removes every client, releases every device and closes the bus.
func (h *Host) Stop() error {
	h.mu.Lock()
	if h.state != StateRunning {
		h.mu.Unlock()
		return ErrNotStarted
	}
	h.state = StateStopping
	h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
	h.reaper.Wait()

	// Shutdown must complete even though the run context is gone.
	ctx := context.Background()
	clients := h.registry.RemoveAll(ctx)
	devices := h.devices.Cleanup(ctx)

	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()
	for _, id := range subs {
		h.bus.Unsubscribe(id)
	}
	h.bus.Close()

	h.mu.Lock()
	h.state = StateStopped
	h.mu.Unlock()

	h.debugLog("host stopped", "clients", clients, "devices", devices)
	return nil
}

func (h *Host) requireRunning() error {
	if h.State() != StateRunning {
		return ErrNotStarted
	}
	return nil
}

// Register admits a client and binds a freshly created device to it.
// If the device cannot be created the client is removed again.
func (h *Host) Register(ctx context.Context, reg Registration) (Admission, error) {
	if err := h.requireRunning(); err != nil {
		return Admission{}, err
	}
	if err := checkVersionCompatibility(reg.Protocol); err != nil {
		return Admission{}, err
	}

	id, err := h.registry.GenerateClientID(reg.Origin)
	if err != nil {
		return Admission{}, err
	}

	err = h.registry.AddClient(ctx, session.Session{
		ID:          id,
		Origin:      reg.Origin,
		UserAgent:   reg.UserAgent,
		ProfileName: reg.ProfileName,
	})
	if err != nil {
		h.debugLog("Register: client refused", "origin", reg.Origin, "error", err)
		return Admission{}, err
	}

	devID, err := h.devices.CreateDevice(ctx, id)
	if err != nil {
		h.debugLog("Register: device creation failed, rolling back", "client", id, "error", err)
		_ = h.registry.RemoveClient(ctx, id)
		return Admission{}, err
	}

	if err := h.registry.AssignDevice(ctx, id, devID); err != nil {
		// The client left while its device was being created.
		h.debugLog("Register: client gone before assignment", "client", id, "device", devID)
		_ = h.devices.RemoveDevice(ctx, devID)
		return Admission{}, err
	}

	adm := Admission{ClientID: id, DeviceID: devID}
	if info, ok := h.deviceInfo(devID); ok {
		adm.DeviceName = info.Name
	}
	return adm, nil
}

// Submit routes a single event from clientID to its device.
// Returns ErrNoDevice if the client has no device.
func (h *Host) Submit(ctx context.Context, clientID string, ev input.Event) error {
	if err := h.requireRunning(); err != nil {
		return err
	}
	devID, ok := h.devices.GetDeviceForClient(clientID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDevice, clientID)
	}

	ev.ClientID = clientID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = h.now()
	}
	if err := ev.Validate(); err != nil {
		return err
	}
	return h.deliver(ctx, clientID, devID, []input.Event{ev})
}

// SubmitFrame decodes a browser frame and routes its events in order.
// Invalid controls are skipped and reported together; a backend failure
// stops the frame.
func (h *Host) SubmitFrame(ctx context.Context, clientID string, frame input.Frame) error {
	if err := h.requireRunning(); err != nil {
		return err
	}
	devID, ok := h.devices.GetDeviceForClient(clientID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDevice, clientID)
	}
	return h.deliver(ctx, clientID, devID, frame.Events(clientID, h.now()))
}

// deliver marks the client active and applies events to devID in order.
// Events for a client that has already left are dropped without error.
func (h *Host) deliver(ctx context.Context, clientID string, devID device.ID, events []input.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := h.registry.MarkActive(ctx, clientID); err != nil {
		h.debugLog("dropping input from departed client", "client", clientID, "events", len(events))
		return nil
	}

	var errs []error
	for _, ev := range events {
		err := h.devices.SendEvent(ctx, devID, ev)
		if err != nil {
			errs = append(errs, err)
			if IsBackend(err) {
				h.failClient(ctx, clientID, err)
			}
			if !IsInvalidInput(err) {
				break
			}
			continue
		}
		if h.config.PublishInput {
			h.bus.Publish(ctx, eventbus.TopicInputReceived, device.Routed{DeviceID: devID, Event: ev})
		}
	}
	return errors.Join(errs...)
}

// failClient moves a client whose device stopped accepting writes to Error.
// The reaper removes it, and its device, after the inactivity timeout.
func (h *Host) failClient(ctx context.Context, clientID string, cause error) {
	if err := h.registry.SetStatus(ctx, clientID, session.StatusError); err != nil {
		h.debugLog("could not mark client failed", "client", clientID, "error", err)
		return
	}
	if h.logger != nil {
		h.logger.Warn("device write failed, client marked as error", "client", clientID, "error", cause)
	}
}

// Deregister removes the client. Its device is released by the host's
// client_disconnected subscription before Deregister returns.
func (h *Host) Deregister(ctx context.Context, clientID string) error {
	return h.registry.RemoveClient(ctx, clientID)
}

// UpdateProfile renames the client's profile.
func (h *Host) UpdateProfile(ctx context.Context, clientID, name string) error {
	return h.registry.UpdateProfile(ctx, clientID, name)
}

// Client returns a snapshot of one session.
func (h *Host) Client(clientID string) (session.Session, bool) {
	return h.registry.GetClient(clientID)
}

// Clients returns a snapshot of every session.
func (h *Host) Clients() []session.Session {
	return h.registry.ListClients()
}

// Devices returns a snapshot of every live device.
func (h *Host) Devices() []device.Info {
	return h.devices.ListDevices()
}

// FreeDevices returns the number of devices that can still be created.
func (h *Host) FreeDevices() int {
	return h.devices.Free()
}

func (h *Host) deviceInfo(id device.ID) (device.Info, bool) {
	for _, info := range h.devices.ListDevices() {
		if info.ID == id {
			return info, true
		}
	}
	return device.Info{}, false
}

// Status returns a summary of the host.
func (h *Host) Status() Status {
	h.mu.RLock()
	state, started := h.state, h.startedAt
	h.mu.RUnlock()

	st := Status{
		State:      state,
		StartedAt:  started,
		Clients:    h.registry.Stats(),
		Devices:    h.devices.GetDeviceCount(),
		MaxClients: h.registry.MaxClients(),
		MaxDevices: h.devices.MaxDevices(),
		Protocol:   version.Current,
		Gamepad:    h.devices.Capabilities(),
	}
	if state == StateRunning {
		st.Uptime = h.now().Sub(started)
	}
	return st
}

// onClientDisconnected releases the device of a departing client.
func (h *Host) onClientDisconnected(ctx context.Context, ev eventbus.Event) error {
	s, ok := ev.Payload.(session.Session)
	if !ok {
		return nil
	}
	err := h.devices.ReleaseClient(ctx, s.ID)
	if err != nil && !errors.Is(err, device.ErrDeviceNotFound) {
		return err
	}
	return nil
}

func (h *Host) debugLog(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
