package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// wsConn is a tracked WebSocket. gorilla/websocket allows one concurrent
// writer, so every write goes through writeMu.
type wsConn struct {
	conn         *websocket.Conn
	clientID     string
	writeTimeout time.Duration

	writeMu sync.Mutex
}

var _ peer = (*wsConn)(nil)

func (c *wsConn) ClientID() string {
	return c.clientID
}

// Send writes msg as a JSON text message.
func (c *wsConn) Send(msg Outbound) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// handleClientWS serves /ws/{client_id}.
func (s *Server) handleClientWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("client_id")
	if _, ok := s.host.Client(clientID); !ok {
		writeError(w, http.StatusNotFound, "not_found", "client not registered")
		return
	}

	c, err := s.accept(w, r, clientID)
	if err != nil {
		return
	}
	s.debugLog("client websocket opened", "client", clientID, "remote", r.RemoteAddr)

	s.serveConn(c, func(msg Inbound) {
		s.handleClientMessage(c, msg)
	})

	// The client leaves with its connection.
	err = s.host.Deregister(s.ctx, clientID)
	if err != nil && !errors.Is(err, session.ErrClientNotFound) {
		s.logger.Warn("deregister after websocket close failed", "client", clientID, "error", err)
	}
	s.debugLog("client websocket closed", "client", clientID)
}

// handleDashboardWS serves /ws. Dashboards only receive broadcasts.
func (s *Server) handleDashboardWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.accept(w, r, "")
	if err != nil {
		return
	}
	s.debugLog("dashboard websocket opened", "remote", r.RemoteAddr)

	s.serveConn(c, func(msg Inbound) {
		if msg.Type == MsgPing {
			_ = c.Send(newOutbound(MsgPong, nil, s.now()))
		}
	})
}

// accept upgrades the request and tracks the connection.
func (s *Server) accept(w http.ResponseWriter, r *http.Request, clientID string) (*wsConn, error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		s.debugLog("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return nil, err
	}
	c := &wsConn{
		conn:         conn,
		clientID:     clientID,
		writeTimeout: s.config.WriteTimeout,
	}
	s.conns.Add(c)
	return c, nil
}

// serveConn runs the read loop of c until the peer goes away, the server
// stops, or a pong is missed. handle is called in arrival order.
func (s *Server) serveConn(c *wsConn, handle func(Inbound)) {
	defer func() {
		s.conns.Remove(c)
		_ = c.Close()
	}()

	deadline := s.config.readDeadline()
	c.conn.SetReadLimit(s.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	done := make(chan struct{})
	defer close(done)
	go s.runPinger(c, done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.debugLog("websocket read error", "client", c.clientID, "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(deadline))

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = c.Send(newOutbound(MsgError, errorData("invalid_input", "malformed message"), s.now()))
			continue
		}
		handle(msg)
	}
}

// runPinger sends WebSocket pings until done is closed or a write fails.
func (s *Server) runPinger(c *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				s.debugLog("websocket ping failed", "client", c.clientID, "error", err)
				_ = c.Close()
				return
			}
		}
	}
}

// handleClientMessage dispatches one message from a registered client.
func (s *Server) handleClientMessage(c *wsConn, msg Inbound) {
	switch msg.Type {
	case MsgPing:
		_ = c.Send(newOutbound(MsgPong, nil, s.now()))

	case MsgGamepadEvent:
		var frame input.Frame
		if err := json.Unmarshal(msg.Data, &frame); err != nil {
			_ = c.Send(newOutbound(MsgError, errorData("invalid_input", "malformed frame"), s.now()))
			return
		}
		if frame.Timestamp == 0 {
			frame.Timestamp = msg.Timestamp
		}
		if err := s.host.SubmitFrame(s.ctx, c.clientID, frame); err != nil {
			_, code := classify(err)
			_ = c.Send(newOutbound(MsgError, errorData(code, err.Error()), s.now()))
		}

	case MsgProfile:
		var req ProfileRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			_ = c.Send(newOutbound(MsgError, errorData("invalid_input", "malformed profile"), s.now()))
			return
		}
		if err := s.host.UpdateProfile(s.ctx, c.clientID, req.ProfileName); err != nil {
			_, code := classify(err)
			_ = c.Send(newOutbound(MsgError, errorData(code, err.Error()), s.now()))
		}

	default:
		s.debugLog("ignoring websocket message", "client", c.clientID, "type", msg.Type)
	}
}

func errorData(code, message string) ErrorResponse {
	return ErrorResponse{Error: true, Code: code, Message: message}
}

// broadcast forwards client lifecycle events to every open connection.
// A departing client's own connections are closed first.
func (s *Server) broadcast(_ context.Context, ev eventbus.Event) error {
	sess, ok := ev.Payload.(session.Session)
	if !ok {
		return nil
	}

	var typ string
	switch ev.Topic {
	case eventbus.TopicClientConnected:
		typ = MsgClientConnected
	case eventbus.TopicClientDisconnected:
		typ = MsgClientDisconnected
		s.conns.CloseClient(sess.ID)
	case eventbus.TopicClientProfileUpdated:
		typ = MsgProfileUpdated
	default:
		return nil
	}

	msg := newOutbound(typ, summarize(sess), ev.Time)
	for _, c := range s.conns.Snapshot() {
		if err := c.Send(msg); err != nil {
			s.debugLog("broadcast failed", "client", c.ClientID(), "error", err)
		}
	}
	return nil
}

// broadcastTopics are the bus topics forwarded to WebSocket peers.
var broadcastTopics = []eventbus.Topic{
	eventbus.TopicClientConnected,
	eventbus.TopicClientDisconnected,
	eventbus.TopicClientProfileUpdated,
}
