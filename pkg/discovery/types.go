package discovery

import (
	"errors"
	"time"
)

// Service type and limits.
const (
	// ServiceType is the DNS-SD service type of a remote gamepad host.
	ServiceType = "_remotepad._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default HTTP port of the host.
	DefaultPort = 5002

	// DefaultTTL is the default record TTL.
	DefaultTTL = 120 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyVersion = "ver"
	TXTKeyMax     = "max"
	TXTKeyFree    = "free"
	TXTKeyName    = "name"
	TXTKeyPath    = "path"
)

// Errors.
var (
	ErrNotAdvertising      = errors.New("not advertising")
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidTXT          = errors.New("invalid TXT record value")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 bytes")
	ErrEmptyInstanceName   = errors.New("empty instance name")
)

// HostInfo is what a host advertises.
type HostInfo struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// Port is the HTTP port. Zero selects DefaultPort.
	Port uint16

	// Protocol is the client protocol version.
	Protocol string

	// MaxGamepads is the device capacity.
	MaxGamepads int

	// Free is the number of devices still available.
	Free int

	// Name is an optional human-readable name.
	Name string

	// Path is where the browser client is served. Empty means "/".
	Path string
}
