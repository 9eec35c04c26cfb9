package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
)

// Server serves a Host over HTTP and WebSocket.
type Server struct {
	host   Host
	config ServerConfig
	logger *slog.Logger

	handler  http.Handler
	upgrader websocket.Upgrader
	conns    *connTracker

	httpServer *http.Server
	listener   net.Listener
	subs       []eventbus.SubscriptionID

	// State
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	now func() time.Time
}

// NewServer creates a server for host.
func NewServer(host Host, config ServerConfig) (*Server, error) {
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}
	config.applyDefaults()

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		host:   host,
		config: config,
		logger: logger,
		conns:  newConnTracker(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients load the page from this host or from a file.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ctx: context.Background(),
		now: time.Now,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler. It is usable without Start; broadcasts
// are only forwarded between Start and Stop.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and begins serving.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	s.subscribe()
	s.running.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	s.logger.Info("transport listening", "address", listener.Addr().String())
	return nil
}

// Stop stops the server and closes all WebSocket connections.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)

	s.unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)

	if closed := s.conns.CloseAll(); closed > 0 {
		s.debugLog("closed websocket connections", "count", closed)
	}
	s.cancel()
	s.wg.Wait()
	return err
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	return s.conns.Len()
}

// subscribe attaches the broadcaster to the host's bus.
func (s *Server) subscribe() {
	bus := s.host.Bus()
	if bus == nil {
		return
	}
	for _, topic := range broadcastTopics {
		s.subs = append(s.subs, bus.Subscribe(topic, s.broadcast))
	}
}

func (s *Server) unsubscribe() {
	bus := s.host.Bus()
	if bus == nil {
		return
	}
	for _, id := range s.subs {
		bus.Unsubscribe(id)
	}
	s.subs = nil
}

func (s *Server) debugLog(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}
