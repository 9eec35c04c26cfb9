package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Address() != "0.0.0.0:5002" {
		t.Errorf("expected address 0.0.0.0:5002, got %s", cfg.Address())
	}
	if cfg.Gamepads.MaxGamepads != 4 || cfg.Gamepads.MaxClients != 4 {
		t.Errorf("expected 4/4, got %d/%d", cfg.Gamepads.MaxGamepads, cfg.Gamepads.MaxClients)
	}
	if cfg.Gamepads.NameTemplate != "RemoteGamepad-%d" {
		t.Errorf("unexpected name template %q", cfg.Gamepads.NameTemplate)
	}
	if cfg.Session.Timeout != time.Hour {
		t.Errorf("expected 1h session timeout, got %v", cfg.Session.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remotepad.yaml")
	content := `
server:
  port: 6000
  log_level: debug
gamepads:
  max_gamepads: 2
  backend: memory
session:
  timeout: 15m
mqtt:
  broker: tcp://broker:1883
journal:
  path: /tmp/pads.rglog
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("expected port 6000, got %d", cfg.Server.Port)
	}
	// Untouched values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Gamepads.MaxGamepads != 2 || cfg.Gamepads.MaxClients != 4 {
		t.Errorf("expected 2/4, got %d/%d", cfg.Gamepads.MaxGamepads, cfg.Gamepads.MaxClients)
	}
	if cfg.Gamepads.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Gamepads.Backend)
	}
	if cfg.Session.Timeout != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.Session.Timeout)
	}
	if cfg.MQTT.Broker != "tcp://broker:1883" || cfg.MQTT.Prefix != "remotepad" {
		t.Errorf("unexpected mqtt config %+v", cfg.MQTT)
	}
	if cfg.Journal.Path != "/tmp/pads.rglog" {
		t.Errorf("unexpected journal path %q", cfg.Journal.Path)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gamepads:\n  max_pads: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 5002 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RG_HOST":         "127.0.0.1",
		"RG_PORT":         "7000",
		"RG_DEBUG":        "true",
		"RG_MAX_CLIENTS":  "8",
		"RG_MAX_GAMEPADS": "6",
		"RG_LOG_LEVEL":    "WARN",
		"RG_MQTT_BROKER":  "tcp://mqtt:1883",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Address() != "127.0.0.1:7000" {
		t.Errorf("unexpected address %s", cfg.Address())
	}
	if cfg.Gamepads.MaxClients != 8 || cfg.Gamepads.MaxGamepads != 6 {
		t.Errorf("expected 8/6, got %d/%d", cfg.Gamepads.MaxClients, cfg.Gamepads.MaxGamepads)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("expected warn, got %q", cfg.Server.LogLevel)
	}
	if cfg.MQTT.Broker != "tcp://mqtt:1883" {
		t.Errorf("unexpected broker %q", cfg.MQTT.Broker)
	}
	// RG_DEBUG wins over the log level.
	if lvl, _ := cfg.LogLevel(); lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", lvl)
	}

	env = map[string]string{"RG_PORT": "high"}
	if err := Default().ApplyEnv(lookup); err == nil {
		t.Error("expected error for non-numeric RG_PORT")
	}
}

func TestLoadWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("RG_MAX_GAMEPADS") })

	if err := os.WriteFile(".env", []byte("RG_MAX_GAMEPADS=3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gamepads.MaxGamepads != 3 {
		t.Errorf("expected max_gamepads from .env, got %d", cfg.Gamepads.MaxGamepads)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"PortZero", func(c *Config) { c.Server.Port = 0 }},
		{"PortTooHigh", func(c *Config) { c.Server.Port = 70000 }},
		{"NoGamepads", func(c *Config) { c.Gamepads.MaxGamepads = 0 }},
		{"FewerClientsThanGamepads", func(c *Config) { c.Gamepads.MaxClients = 2 }},
		{"UnknownBackend", func(c *Config) { c.Gamepads.Backend = "xinput" }},
		{"UnknownLogLevel", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"NegativeTimeout", func(c *Config) { c.Session.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
