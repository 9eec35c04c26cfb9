package uinput

import (
	"github.com/remotegamepad/remotegamepad-go/pkg/device"
)

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

// Backend creates devices through uinput.
type Backend struct {
	// Path overrides DefaultPath.
	Path string
}

var _ device.Backend = (*Backend)(nil)

// New returns a backend using DefaultPath.
func New() *Backend {
	return &Backend{Path: DefaultPath}
}

func (b *Backend) path() string {
	if b.Path == "" {
		return DefaultPath
	}
	return b.Path
}
