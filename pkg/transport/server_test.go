package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/service"
	"github.com/remotegamepad/remotegamepad-go/pkg/transport"
)

type testEnv struct {
	host    *service.Host
	backend *device.MemoryBackend
	server  *transport.Server
	base    string
	ws      string
}

// startServer runs a host with capacity max behind a transport listening
// on a random local port.
func startServer(t *testing.T, max int) *testEnv {
	t.Helper()

	backend := device.NewMemoryBackend()
	hc := service.DefaultHostConfig()
	hc.MaxClients = max
	hc.MaxDevices = max
	hc.ReaperInterval = 0

	host, err := service.NewHost(backend, hc)
	require.NoError(t, err)
	require.NoError(t, host.Start(context.Background()))

	sc := transport.DefaultServerConfig()
	sc.Address = "127.0.0.1:0"
	sc.PingInterval = time.Second
	server, err := transport.NewServer(host, sc)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))

	t.Cleanup(func() {
		_ = server.Stop()
		_ = host.Stop()
	})

	addr := server.Addr().String()
	return &testEnv{
		host:    host,
		backend: backend,
		server:  server,
		base:    "http://" + addr,
		ws:      "ws://" + addr,
	}
}

func (e *testEnv) post(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(e.base+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func (e *testEnv) connect(t *testing.T) string {
	t.Helper()
	resp, out := e.post(t, "/connect", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return out["client_id"].(string)
}

func TestConnect(t *testing.T) {
	env := startServer(t, 2)

	resp, out := env.post(t, "/connect", transport.ConnectRequest{ProfileName: "Couch"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Regexp(t, `^client_[0-9a-f]{8}$`, out["client_id"])
	assert.Equal(t, float64(1), out["gamepad_id"])
	assert.Equal(t, "RemoteGamepad-1", out["gamepad_name"])

	s, ok := env.host.Client(out["client_id"].(string))
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1", s.Origin)
	assert.Equal(t, "Couch", s.ProfileName)
	assert.NotEmpty(t, s.UserAgent)

	env.connect(t)

	resp, out = env.post(t, "/connect", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "capacity", out["code"])
}

func TestConnectIncompatibleProtocol(t *testing.T) {
	env := startServer(t, 2)

	resp, out := env.post(t, "/connect", transport.ConnectRequest{Protocol: "2.0"})
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
	assert.Equal(t, "incompatible_version", out["code"])
	assert.Empty(t, env.host.Clients())
}

func TestGamepadData(t *testing.T) {
	env := startServer(t, 2)
	id := env.connect(t)

	t.Run("MissingClientID", func(t *testing.T) {
		resp, _ := env.post(t, "/gamepad_data", input.Frame{Type: "buttons"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownClient", func(t *testing.T) {
		resp, out := env.post(t, "/gamepad_data", input.Frame{Type: "buttons", ClientID: "client_nobody"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", out["code"])
	})

	t.Run("AppliesFrame", func(t *testing.T) {
		frame := input.Frame{
			Type:     "axis",
			ClientID: id,
			Axes:     &input.Axes{LeftStick: &input.Stick{X: 0.5, Y: -0.5}},
			Buttons:  []input.ButtonState{{Name: "BtnA", Pressed: true}},
		}
		resp, out := env.post(t, "/gamepad_data", frame)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "success", out["status"])

		s, _ := env.host.Client(id)
		dev := env.backend.Device(s.DeviceID)
		assert.Equal(t, int32(16384), dev.Axis(input.AxisLeftX))
		assert.Equal(t, int32(16384), dev.Axis(input.AxisLeftY))
		assert.True(t, dev.Button(input.ButtonA))
	})
}

func TestProfileAndDisconnect(t *testing.T) {
	env := startServer(t, 2)
	id := env.connect(t)

	resp, _ := env.post(t, "/profile", transport.ProfileRequest{ClientID: id, ProfileName: "Player 2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s, _ := env.host.Client(id)
	assert.Equal(t, "Player 2", s.ProfileName)

	resp, _ = env.post(t, "/disconnect", transport.DisconnectRequest{ClientID: id})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.host.Clients())
	assert.Empty(t, env.host.Devices())

	resp, _ = env.post(t, "/disconnect", transport.DisconnectRequest{ClientID: id})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.post(t, "/profile", transport.ProfileRequest{ProfileName: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatus(t *testing.T) {
	env := startServer(t, 3)
	env.connect(t)

	resp, err := http.Get(env.base + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st transport.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, 1, st.ClientsCount)
	assert.Equal(t, 1, st.Clients.Connected)
	assert.Equal(t, 3, st.ServerInfo.MaxClients)
	assert.Equal(t, 3, st.ServerInfo.MaxGamepads)
	assert.Equal(t, 1, st.ServerInfo.GamepadsActive)
	assert.Equal(t, "1.0", st.ServerInfo.Protocol)

	pad := st.ServerInfo.Gamepad
	assert.Equal(t, device.DefaultVendorID, pad.VendorID)
	assert.Equal(t, device.DefaultProductID, pad.ProductID)
	assert.Len(t, pad.Buttons, 11)
	assert.Contains(t, pad.Buttons, "BtnA")
	assert.Equal(t, []string{"AxisLx", "AxisLy", "AxisRx", "AxisRy", "TriggerL", "TriggerR"}, pad.Axes)
	assert.True(t, pad.DPad)
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) transport.Outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg transport.Outbound
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestClientWebSocket(t *testing.T) {
	env := startServer(t, 2)
	id := env.connect(t)
	conn := dial(t, env.ws+"/ws/"+id)

	t.Run("PingPong", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
		msg := readMessage(t, conn)
		assert.Equal(t, transport.MsgPong, msg.Type)
	})

	t.Run("GamepadEvent", func(t *testing.T) {
		frame := input.Frame{
			Type: "buttons",
			Buttons: []input.ButtonState{
				{Name: "BtnY", Pressed: true},
				{Name: "Dpad_Up", Pressed: true},
			},
		}
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "gamepad_event", "data": frame}))

		s, _ := env.host.Client(id)
		dev := env.backend.Device(s.DeviceID)
		assert.Eventually(t, func() bool {
			x, y := dev.DPad()
			return dev.Button(input.ButtonY) && x == 0 && y == 1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("MalformedFrame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"gamepad_event","data":"nope"}`)))
		msg := readMessage(t, conn)
		assert.Equal(t, transport.MsgError, msg.Type)
	})

	t.Run("CloseDeregisters", func(t *testing.T) {
		require.NoError(t, conn.Close())
		assert.Eventually(t, func() bool {
			_, ok := env.host.Client(id)
			return !ok && len(env.host.Devices()) == 0
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestClientWebSocketUnknownClient(t *testing.T) {
	env := startServer(t, 2)

	_, resp, err := websocket.DefaultDialer.Dial(env.ws+"/ws/client_nobody", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardBroadcasts(t *testing.T) {
	env := startServer(t, 2)
	dashboard := dial(t, env.ws+"/ws")

	assert.Eventually(t, func() bool {
		return env.server.ConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	id := env.connect(t)
	msg := readMessage(t, dashboard)
	assert.Equal(t, transport.MsgClientConnected, msg.Type)
	data := msg.Data.(map[string]any)
	assert.Equal(t, id, data["client_id"])
	assert.Equal(t, "127.0.0.1", data["ip_address"])

	resp, _ := env.post(t, "/disconnect", transport.DisconnectRequest{ClientID: id})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msg = readMessage(t, dashboard)
	assert.Equal(t, transport.MsgClientDisconnected, msg.Type)
}

func TestKickClosesClientWebSocket(t *testing.T) {
	env := startServer(t, 2)
	id := env.connect(t)
	conn := dial(t, env.ws+"/ws/"+id)

	assert.Eventually(t, func() bool {
		return env.server.ConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, env.host.Deregister(context.Background(), id))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Equal(t, 0, env.server.ConnectionCount())
}

func TestStopClosesWebSockets(t *testing.T) {
	env := startServer(t, 2)
	conn := dial(t, env.ws+"/ws")

	assert.Eventually(t, func() bool {
		return env.server.ConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, env.server.Stop())
	assert.Equal(t, 0, env.server.ConnectionCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
