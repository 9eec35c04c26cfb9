package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNoDevice       = errors.New("client has no device")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateStarting - service is starting up.
	StateStarting

	// StateRunning - service is running normally.
	StateRunning

	// StateStopping - service is shutting down.
	StateStopping

	// StateStopped - service has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// HostConfig configures a Host.
type HostConfig struct {
	// MaxClients is the maximum number of live sessions (default: 4).
	MaxClients int

	// MaxDevices is the maximum number of live virtual devices (default: 4).
	// Must not exceed MaxClients.
	MaxDevices int

	// DeviceNameTemplate formats device names from their ID
	// (default: "RemoteGamepad-%d").
	DeviceNameTemplate string

	// Capabilities of every created device. Nil selects
	// device.DefaultCapabilities.
	Capabilities *device.Capabilities

	// BackendTimeout bounds a single device creation. Zero means no limit.
	BackendTimeout time.Duration

	// SessionTimeout is how long a disconnected or failed session may
	// linger before the reaper removes it.
	SessionTimeout time.Duration

	// ReaperInterval is how often the reaper runs. Zero disables it.
	ReaperInterval time.Duration

	// PublishInput publishes every routed event as input_received.
	PublishInput bool

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultHostConfig returns a HostConfig with sensible defaults.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		MaxClients:         session.DefaultMaxClients,
		MaxDevices:         device.DefaultMaxDevices,
		DeviceNameTemplate: device.DefaultNameTemplate,
		BackendTimeout:     5 * time.Second,
		SessionTimeout:     time.Hour,
		ReaperInterval:     30 * time.Second,
	}
}

// Validate checks if the host config is valid.
func (c *HostConfig) Validate() error {
	if c.MaxClients <= 0 || c.MaxDevices <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxDevices > c.MaxClients {
		return ErrInvalidConfig
	}
	if c.SessionTimeout < 0 || c.ReaperInterval < 0 || c.BackendTimeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Registration describes a client asking to be admitted.
type Registration struct {
	Origin      string
	UserAgent   string
	ProfileName string

	// Protocol is the client's "major.minor" protocol version. Empty is
	// accepted.
	Protocol string
}

// Admission is the result of a successful registration.
type Admission struct {
	ClientID   string
	DeviceID   device.ID
	DeviceName string
}

// Status is a point-in-time summary of the host.
type Status struct {
	State      ServiceState  `json:"-"`
	StartedAt  time.Time     `json:"started_at"`
	Uptime     time.Duration `json:"-"`
	Clients    session.Stats `json:"clients"`
	Devices    int           `json:"devices"`
	MaxClients int           `json:"max_clients"`
	MaxDevices int           `json:"max_devices"`
	Protocol   string        `json:"protocol"`

	// Gamepad is the control surface every created device exposes.
	Gamepad device.Capabilities `json:"-"`
}

// IsCapacity reports whether err means a limit was reached.
func IsCapacity(err error) bool {
	return errors.Is(err, session.ErrCapacityExceeded) || errors.Is(err, device.ErrCapacityExceeded)
}

// IsNotFound reports whether err refers to an unknown client or device.
func IsNotFound(err error) bool {
	return errors.Is(err, session.ErrClientNotFound) ||
		errors.Is(err, device.ErrDeviceNotFound) ||
		errors.Is(err, ErrNoDevice)
}

// IsBackend reports whether err is a device backend failure.
func IsBackend(err error) bool {
	return errors.Is(err, device.ErrBackend)
}

// IsInvalidInput reports whether err is a malformed input event.
func IsInvalidInput(err error) bool {
	return errors.Is(err, input.ErrInvalidInput)
}
