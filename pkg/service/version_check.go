package service

import (
	"errors"
	"fmt"

	"github.com/remotegamepad/remotegamepad-go/pkg/version"
)

// ErrIncompatibleVersion is returned when a client's protocol version is
// not compatible with this host's.
var ErrIncompatibleVersion = errors.New("incompatible protocol version")

// checkVersionCompatibility checks a client's protocol version. An empty
// string is treated as compatible so that plain browser clients, which
// never send one, are admitted.
func checkVersionCompatibility(clientVersion string) error {
	if clientVersion == "" {
		return nil
	}

	clientVer, err := version.Parse(clientVersion)
	if err != nil {
		return fmt.Errorf("%w: invalid protocol %q: %v", ErrIncompatibleVersion, clientVersion, err)
	}

	ourVer, _ := version.Parse(version.Current)
	if !ourVer.Compatible(clientVer) {
		return fmt.Errorf("%w: client=%s, host=%s", ErrIncompatibleVersion, clientVer, ourVer)
	}

	return nil
}
