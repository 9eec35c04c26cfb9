package transport

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults.
const (
	// DefaultPort is the HTTP port the browser client expects.
	DefaultPort = 5002

	// DefaultPingInterval is the interval between WebSocket pings.
	DefaultPingInterval = 30 * time.Second

	// DefaultPongTimeout is how long past a ping interval a pong may arrive.
	DefaultPongTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds a single WebSocket write.
	DefaultWriteTimeout = 5 * time.Second

	// DefaultMaxMessageSize is the largest accepted WebSocket message or
	// request body.
	DefaultMaxMessageSize = 64 * 1024

	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address to listen on (e.g., "0.0.0.0:5002" or "127.0.0.1:0").
	Address string

	// StaticDir, if set, is served at "/" (the browser client).
	StaticDir string

	// PingInterval is the interval between WebSocket pings.
	PingInterval time.Duration

	// PongTimeout is added to PingInterval to form the read deadline.
	PongTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	WriteTimeout time.Duration

	// MaxMessageSize limits WebSocket messages and request bodies.
	MaxMessageSize int64

	// Logger is the optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        fmt.Sprintf("0.0.0.0:%d", DefaultPort),
		PingInterval:   DefaultPingInterval,
		PongTimeout:    DefaultPongTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

// applyDefaults fills zero fields.
func (c *ServerConfig) applyDefaults() {
	if c.Address == "" {
		c.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = DefaultPongTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
}

// readDeadline is how long a WebSocket may stay silent, pongs included.
func (c ServerConfig) readDeadline() time.Duration {
	return c.PingInterval + c.PongTimeout
}
