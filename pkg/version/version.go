// Package version carries the client protocol version and build metadata.
package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

// Current is the client protocol version spoken by this host. Browser
// clients may send it as "protocol" when connecting; a different major
// version is refused.
const Current = "1.0"

// Build is the release name, set with -ldflags "-X .../version.Build=v1.2.0".
var Build = "dev"

// Protocol is a parsed "major.minor" protocol version.
type Protocol struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Protocol, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minor, ".") {
		return Protocol{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return Protocol{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return Protocol{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Protocol{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// MustParse is Parse for constants. It panics on malformed input.
func MustParse(s string) Protocol {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the version as "major.minor".
func (v Protocol) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Protocol) Compatible(other Protocol) bool {
	return v.Major == other.Major
}

// Less reports whether v is older than other.
func (v Protocol) Less(other Protocol) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// Info returns "<build> (protocol <Current>)", using the module version
// from the binary's build info when Build was not set.
func Info() string {
	build := Build
	if build == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			build = bi.Main.Version
		}
	}
	return fmt.Sprintf("%s (protocol %s)", build, Current)
}
