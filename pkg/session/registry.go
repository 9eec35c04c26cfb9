package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
)

// DefaultMaxClients is used when Config.MaxClients is zero.
const DefaultMaxClients = 4

// ClientIDPrefix prefixes every generated client identifier.
const ClientIDPrefix = "client_"

// Config configures a Registry.
type Config struct {
	// MaxClients is the maximum number of live sessions (default: 4).
	MaxClients int

	// Logger is the optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// Registry tracks live client sessions.
type Registry struct {
	mu sync.RWMutex

	// sessions holds all live sessions keyed by client ID.
	sessions map[string]*entry

	// reserved holds IDs handed out by GenerateClientID that have not
	// been added yet.
	reserved map[string]struct{}

	maxClients int
	bus        *eventbus.Bus
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

// entry is a stored session. removing is set once a removal has claimed
// the entry and it only awaits deletion.
type entry struct {
	Session
	removing bool
}

// NewRegistry creates a registry publishing on bus. A nil bus disables
// event publication.
func NewRegistry(bus *eventbus.Bus, config Config) *Registry {
	if config.MaxClients <= 0 {
		config.MaxClients = DefaultMaxClients
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		sessions:   make(map[string]*entry),
		reserved:   make(map[string]struct{}),
		maxClients: config.MaxClients,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
		newID: func() string {
			return uuid.NewString()[:8]
		},
	}
}

// MaxClients returns the configured capacity.
func (r *Registry) MaxClients() int {
	return r.maxClients
}

// GenerateClientID returns an identifier that collides with no live or
// reserved identifier. The ID stays reserved until AddClient is called
// with it.
func (r *Registry) GenerateClientID(origin string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < 16; attempt++ {
		id := ClientIDPrefix + r.newID()
		if _, live := r.sessions[id]; live {
			continue
		}
		if _, taken := r.reserved[id]; taken {
			continue
		}
		r.reserved[id] = struct{}{}
		r.logger.Debug("client id generated", "client", id, "origin", origin)
		return id, nil
	}
	return "", fmt.Errorf("generate client id for %s: %w", origin, ErrClientExists)
}

// AddClient admits s. It stamps the connection time, sets the status to
// Connected and publishes client_connected.
// Returns ErrCapacityExceeded if the registry is full.
// Returns ErrClientExists if s.ID is already live.
func (r *Registry) AddClient(ctx context.Context, s Session) error {
	r.mu.Lock()
	delete(r.reserved, s.ID)

	if _, exists := r.sessions[s.ID]; exists {
		r.mu.Unlock()
		r.logger.Warn("client already connected", "client", s.ID)
		return ErrClientExists
	}
	if len(r.sessions) >= r.maxClients {
		r.mu.Unlock()
		r.logger.Warn("cannot add client: max clients reached",
			"client", s.ID, "max", r.maxClients)
		return ErrCapacityExceeded
	}

	s.ConnectedAt = r.now()
	s.Status = StatusConnected
	r.sessions[s.ID] = &entry{Session: s}
	r.mu.Unlock()

	r.logger.Info("client connected", "client", s.ID, "origin", s.Origin)
	r.publish(ctx, eventbus.TopicClientConnected, s)
	return nil
}

// RemoveClient marks the session Disconnected, publishes
// client_disconnected while the entry is still readable, then deletes it.
// Returns ErrClientNotFound if id is not live or is already being removed.
func (r *Registry) RemoveClient(ctx context.Context, id string) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing {
		r.mu.Unlock()
		r.logger.Debug("cannot remove client: not found", "client", id)
		return ErrClientNotFound
	}
	e.removing = true
	previous := e.Status
	e.Status = StatusDisconnected
	snapshot := e.Session
	r.mu.Unlock()

	if previous != StatusDisconnected {
		r.publish(ctx, eventbus.TopicClientStatusChanged, StatusChange{Session: snapshot, Previous: previous})
	}
	r.publish(ctx, eventbus.TopicClientDisconnected, snapshot)
	r.delete(id, e)

	r.logger.Info("client removed", "client", id, "origin", snapshot.Origin)
	return nil
}

// UpdateProfile sets the profile name. An unchanged name succeeds without
// publishing.
func (r *Registry) UpdateProfile(ctx context.Context, id, name string) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	s := &e.Session
	if s.ProfileName == name {
		r.mu.Unlock()
		return nil
	}
	old := s.ProfileName
	s.ProfileName = name
	snapshot := *s
	r.mu.Unlock()

	r.logger.Info("client profile updated", "client", id, "from", old, "to", name)
	r.publish(ctx, eventbus.TopicClientProfileUpdated, snapshot)
	return nil
}

// AssignDevice records the device bound to the client and publishes
// client_device_assigned.
func (r *Registry) AssignDevice(ctx context.Context, id string, deviceID device.ID) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	s := &e.Session
	s.DeviceID = deviceID
	snapshot := *s
	r.mu.Unlock()

	r.logger.Info("client assigned to device", "client", id, "device", deviceID)
	r.publish(ctx, eventbus.TopicClientDeviceAssigned, snapshot)
	return nil
}

// SetStatus moves the session to status.
// Returns ErrInvalidTransition for transitions the state machine forbids.
func (r *Registry) SetStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	s := &e.Session
	previous := s.Status
	if !previous.CanTransition(status) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, status)
	}
	if previous == status {
		r.mu.Unlock()
		return nil
	}
	s.Status = status
	snapshot := *s
	r.mu.Unlock()

	r.logger.Debug("client status changed", "client", id, "from", previous, "to", status)
	r.publish(ctx, eventbus.TopicClientStatusChanged, StatusChange{Session: snapshot, Previous: previous})
	return nil
}

// MarkActive records input activity. The first call after connecting moves
// the session from Connected to Active.
func (r *Registry) MarkActive(ctx context.Context, id string) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	s := &e.Session
	s.LastInputAt = r.now()
	if s.Status != StatusConnected {
		r.mu.Unlock()
		return nil
	}
	s.Status = StatusActive
	snapshot := *s
	r.mu.Unlock()

	r.publish(ctx, eventbus.TopicClientStatusChanged, StatusChange{Session: snapshot, Previous: StatusConnected})
	return nil
}

// ListClients returns a snapshot of all sessions ordered by connection time.
func (r *Registry) ListClients() []Session {
	r.mu.RLock()
	out := make([]Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.Session)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}

// GetClient returns a copy of the session.
func (r *Registry) GetClient(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.sessions[id]
	if !exists {
		return Session{}, false
	}
	return e.Session, true
}

// CountByStatus returns the number of sessions in status.
func (r *Registry) CountByStatus(status Status) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.sessions {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Stats returns per-status session counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := Stats{Total: len(r.sessions)}
	for _, e := range r.sessions {
		switch e.Status {
		case StatusConnecting:
			st.Connecting++
		case StatusConnected:
			st.Connected++
		case StatusActive:
			st.Active++
		case StatusDisconnected:
			st.Disconnected++
		case StatusError:
			st.Error++
		}
	}
	return st
}

// CleanupInactive removes Disconnected and Error sessions connected longer
// than timeout ago, publishing client_disconnected for each. Returns the
// number removed.
func (r *Registry) CleanupInactive(ctx context.Context, timeout time.Duration) int {
	now := r.now()

	r.mu.RLock()
	var stale []string
	for id, e := range r.sessions {
		if !e.removing && e.Status.Terminal() && e.Age(now) > timeout {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		if err := r.removeTerminal(ctx, id); err == nil {
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("cleaned up inactive clients", "count", removed)
	}
	return removed
}

// removeTerminal deletes a session already in a terminal status.
func (r *Registry) removeTerminal(ctx context.Context, id string) error {
	r.mu.Lock()
	e, exists := r.sessions[id]
	if !exists || e.removing || !e.Status.Terminal() {
		r.mu.Unlock()
		return ErrClientNotFound
	}
	e.removing = true
	snapshot := e.Session
	r.mu.Unlock()

	r.publish(ctx, eventbus.TopicClientDisconnected, snapshot)
	r.delete(id, e)
	return nil
}

// delete drops id if it still refers to e. RemoveAll may have replaced the
// table while e was being published.
func (r *Registry) delete(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[id]; ok && cur == e {
		delete(r.sessions, id)
	}
}

// RemoveAll drops every session and publishes a single clients_cleared
// event. Returns the number removed.
func (r *Registry) RemoveAll(ctx context.Context) int {
	r.mu.Lock()
	n := len(r.sessions)
	r.sessions = make(map[string]*entry)
	r.reserved = make(map[string]struct{})
	r.mu.Unlock()

	r.logger.Info("all clients removed", "count", n)
	r.publish(ctx, eventbus.TopicClientsCleared, eventbus.ClearedPayload{Count: n})
	return n
}

func (r *Registry) publish(ctx context.Context, topic eventbus.Topic, payload any) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(ctx, topic, payload)
}
