package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remotegamepad/remotegamepad-go/pkg/config"
	"github.com/remotegamepad/remotegamepad-go/pkg/discovery"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Address() != "0.0.0.0:5002" {
		t.Errorf("unexpected address %s", cfg.Address())
	}
	if opts.Interactive || opts.NoMDNS {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParseFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remotepad.yaml")
	content := "server:\n  port: 6000\ngamepads:\n  max_gamepads: 2\n  max_clients: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, opts, err := parseFlags([]string{
		"--config", path,
		"--port", "7000",
		"--max-gamepads", "3",
		"--backend", "memory",
		"--journal", "/tmp/j.cbor",
		"--no-mdns",
		"-i",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected flag port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Gamepads.MaxGamepads != 3 || cfg.Gamepads.MaxClients != 3 {
		t.Errorf("expected 3/3, got %d/%d", cfg.Gamepads.MaxGamepads, cfg.Gamepads.MaxClients)
	}
	if cfg.Gamepads.Backend != config.BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Gamepads.Backend)
	}
	if cfg.Journal.Path != "/tmp/j.cbor" {
		t.Errorf("unexpected journal path %q", cfg.Journal.Path)
	}
	if !opts.NoMDNS || !opts.Interactive {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	if _, _, err := parseFlags([]string{"--max-clients", "1", "--max-gamepads", "2"}); err == nil {
		t.Error("expected error when max-clients < max-gamepads")
	}
	if _, _, err := parseFlags([]string{"--backend", "xinput"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, _, err := parseFlags([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestInstanceName(t *testing.T) {
	cfg := config.Default()
	cfg.Discovery.InstanceName = "Living Room"
	if got := instanceName(cfg); got != "Living Room" {
		t.Errorf("expected configured name, got %q", got)
	}

	cfg.Discovery.InstanceName = strings.Repeat("x", 80)
	if got := instanceName(cfg); len(got) != discovery.MaxInstanceNameLen {
		t.Errorf("expected name truncated to %d, got %d", discovery.MaxInstanceNameLen, len(got))
	}

	cfg.Discovery.InstanceName = ""
	if got := instanceName(cfg); !strings.HasPrefix(got, "remotepad-") {
		t.Errorf("expected hostname-based name, got %q", got)
	}
}

func TestNewHostUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Gamepads.Backend = config.BackendMemory
	cfg.Gamepads.MaxGamepads = 2

	host, err := newHost(cfg, nil)
	if err != nil {
		t.Fatalf("newHost: %v", err)
	}
	st := host.Status()
	if st.MaxDevices != 2 || st.MaxClients != 4 {
		t.Errorf("unexpected limits %d/%d", st.MaxDevices, st.MaxClients)
	}
}
