package device

import (
	"errors"
	"strconv"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

// Device errors.
var (
	ErrCapacityExceeded = errors.New("maximum devices reached")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrBackend          = errors.New("device backend failure")
	ErrUnsupported      = errors.New("device backend not supported on this platform")
	ErrReleased         = errors.New("device released during creation")
)

// ID identifies a live device. IDs start at 1; 0 means no device.
type ID int

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Info is a snapshot of one live device.
type Info struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	ClientID  string    `json:"client_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Routed is the payload of input_received: one event and the device it
// was applied to.
type Routed struct {
	DeviceID ID
	Event    input.Event
}
