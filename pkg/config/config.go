package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendUinput = "uinput"
	BackendMemory = "memory"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the host configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gamepads  GamepadsConfig  `yaml:"gamepads"`
	Session   SessionConfig   `yaml:"session"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Journal   JournalConfig   `yaml:"journal"`
}

// ServerConfig configures the HTTP/WebSocket listener and logging.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Debug forces the debug log level.
	Debug bool `yaml:"debug"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogJSON selects JSON log output instead of text.
	LogJSON bool `yaml:"log_json"`

	// StaticDir serves the browser client when set.
	StaticDir string `yaml:"static_dir"`
}

// GamepadsConfig configures virtual devices.
type GamepadsConfig struct {
	MaxGamepads int `yaml:"max_gamepads"`
	MaxClients  int `yaml:"max_clients"`

	// NameTemplate is formatted with the device ID.
	NameTemplate string `yaml:"name_template"`

	// Backend is "uinput" or "memory".
	Backend string `yaml:"backend"`
}

// SessionConfig configures session expiry.
type SessionConfig struct {
	// Timeout is how long a disconnected or failed session lingers
	// before it is removed.
	Timeout time.Duration `yaml:"timeout"`

	// CleanupInterval is how often expiry runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DiscoveryConfig configures mDNS advertisement.
type DiscoveryConfig struct {
	Enabled bool `yaml:"enabled"`

	// InstanceName defaults to the host name.
	InstanceName string `yaml:"instance_name"`

	// Interface restricts advertisement to one network interface.
	Interface string `yaml:"interface"`
}

// MQTTConfig configures the lifecycle bridge. An empty broker disables it.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Prefix   string `yaml:"prefix"`
}

// JournalConfig configures the session journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     5002,
			LogLevel: "info",
		},
		Gamepads: GamepadsConfig{
			MaxGamepads:  4,
			MaxClients:   4,
			NameTemplate: "RemoteGamepad-%d",
			Backend:      BackendUinput,
		},
		Session: SessionConfig{
			Timeout:         time.Hour,
			CleanupInterval: 30 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
		},
		MQTT: MQTTConfig{
			ClientID: "remotepad-host",
			Prefix:   "remotepad",
		},
	}
}

// Load builds the configuration from defaults, the file at path (if any),
// a .env file and the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with the file at path. The environment
// is not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges a YAML file into c. Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadDotEnv loads variables from the named files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv applies RG_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("RG_HOST"); ok && v != "" {
		c.Server.Host = v
	}
	if err := envInt(lookup, "RG_PORT", &c.Server.Port); err != nil {
		return err
	}
	if v, ok := lookup("RG_DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RG_DEBUG: %w", err)
		}
		c.Server.Debug = b
	}
	if v, ok := lookup("RG_LOG_LEVEL"); ok && v != "" {
		c.Server.LogLevel = strings.ToLower(v)
	}
	if err := envInt(lookup, "RG_MAX_CLIENTS", &c.Gamepads.MaxClients); err != nil {
		return err
	}
	if err := envInt(lookup, "RG_MAX_GAMEPADS", &c.Gamepads.MaxGamepads); err != nil {
		return err
	}
	if v, ok := lookup("RG_MQTT_BROKER"); ok {
		c.MQTT.Broker = v
	}
	return nil
}

func envInt(lookup func(string) (string, bool), key string, dst *int) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Gamepads.MaxGamepads <= 0 {
		return fmt.Errorf("%w: max_gamepads must be positive", ErrInvalidConfig)
	}
	if c.Gamepads.MaxClients < c.Gamepads.MaxGamepads {
		return fmt.Errorf("%w: max_clients (%d) must be at least max_gamepads (%d)",
			ErrInvalidConfig, c.Gamepads.MaxClients, c.Gamepads.MaxGamepads)
	}
	switch c.Gamepads.Backend {
	case BackendUinput, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Gamepads.Backend)
	}
	if c.Session.Timeout < 0 || c.Session.CleanupInterval < 0 {
		return fmt.Errorf("%w: negative session duration", ErrInvalidConfig)
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LogLevel returns the effective slog level. Debug overrides LogLevel.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Server.Debug {
		return slog.LevelDebug, nil
	}
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Server.LogLevel)
	}
}
