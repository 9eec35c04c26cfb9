package transport

import (
	"encoding/json"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// WebSocket message types.
const (
	MsgGamepadEvent       = "gamepad_event"
	MsgProfile            = "profile"
	MsgPing               = "ping"
	MsgPong               = "pong"
	MsgError              = "error"
	MsgClientConnected    = "client_connected"
	MsgClientDisconnected = "client_disconnected"
	MsgProfileUpdated     = "client_profile_updated"
)

// Inbound is a message received on a WebSocket.
type Inbound struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp float64         `json:"timestamp,omitempty"`
}

// Outbound is a message sent on a WebSocket.
type Outbound struct {
	Type      string  `json:"type"`
	Data      any     `json:"data,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

func newOutbound(typ string, data any, now time.Time) Outbound {
	return Outbound{Type: typ, Data: data, Timestamp: unixSeconds(now)}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// ClientSummary is the broadcast payload for client lifecycle messages.
type ClientSummary struct {
	ClientID    string `json:"client_id"`
	IPAddress   string `json:"ip_address,omitempty"`
	ProfileName string `json:"profile_name,omitempty"`
	GamepadID   int    `json:"gamepad_id,omitempty"`
}

func summarize(s session.Session) ClientSummary {
	return ClientSummary{
		ClientID:    s.ID,
		IPAddress:   s.Origin,
		ProfileName: s.ProfileName,
		GamepadID:   int(s.DeviceID),
	}
}

// ConnectRequest is the optional body of POST /connect.
type ConnectRequest struct {
	UserAgent   string `json:"user_agent,omitempty"`
	ProfileName string `json:"profile_name,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
}

// ConnectResponse answers POST /connect.
type ConnectResponse struct {
	Success     bool   `json:"success"`
	ClientID    string `json:"client_id"`
	GamepadID   int    `json:"gamepad_id,omitempty"`
	GamepadName string `json:"gamepad_name,omitempty"`
	Message     string `json:"message"`
}

// ProfileRequest is the body of POST /profile and of the "profile"
// WebSocket message.
type ProfileRequest struct {
	ClientID    string `json:"client_id,omitempty"`
	ProfileName string `json:"profile_name"`
}

// DisconnectRequest is the body of POST /disconnect.
type DisconnectRequest struct {
	ClientID string `json:"client_id"`
}

// StatusResponse answers GET /status.
type StatusResponse struct {
	Status       string        `json:"status"`
	Uptime       int64         `json:"uptime"`
	ClientsCount int           `json:"clients_count"`
	Clients      session.Stats `json:"clients"`
	ServerInfo   ServerInfo    `json:"server_info"`
}

// ServerInfo describes the host's limits.
type ServerInfo struct {
	Address        string `json:"address"`
	MaxClients     int    `json:"max_clients"`
	GamepadsActive int    `json:"gamepads_active"`
	MaxGamepads    int    `json:"max_gamepads"`
	Protocol       string `json:"protocol"`

	Gamepad GamepadInfo `json:"gamepad"`
}

// GamepadInfo lists the controls a created gamepad accepts, by wire name.
type GamepadInfo struct {
	VendorID  uint16   `json:"vendor_id"`
	ProductID uint16   `json:"product_id"`
	Buttons   []string `json:"buttons"`
	Axes      []string `json:"axes"`
	DPad      bool     `json:"dpad"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
