package transport

import (
	"sort"
	"sync"
	"time"
)

// peer is an open WebSocket as seen by the tracker.
type peer interface {
	// ClientID is empty for dashboard connections.
	ClientID() string
	Send(msg Outbound) error
	Close() error
}

// connTracker tracks open WebSocket connections and when they were opened.
// The HTTP server does not own hijacked connections, so shutdown and
// client kicks close them through the tracker.
type connTracker struct {
	mu    sync.Mutex
	conns map[peer]time.Time
}

// newConnTracker creates a new connection tracker.
func newConnTracker() *connTracker {
	return &connTracker{
		conns: make(map[peer]time.Time),
	}
}

// Add registers a connection with the current time.
func (ct *connTracker) Add(conn peer) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.conns[conn] = time.Now()
}

// Remove deregisters a connection. Safe to call on absent connections.
func (ct *connTracker) Remove(conn peer) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	delete(ct.conns, conn)
}

// CloseClient closes and removes every connection of clientID.
// Returns the number of connections closed.
func (ct *connTracker) CloseClient(clientID string) int {
	if clientID == "" {
		return 0
	}

	ct.mu.Lock()
	var matched []peer
	for conn := range ct.conns {
		if conn.ClientID() == clientID {
			matched = append(matched, conn)
			delete(ct.conns, conn)
		}
	}
	ct.mu.Unlock()

	for _, conn := range matched {
		_ = conn.Close()
	}
	return len(matched)
}

// CloseAll closes and removes all tracked connections.
func (ct *connTracker) CloseAll() int {
	ct.mu.Lock()
	conns := ct.conns
	ct.conns = make(map[peer]time.Time)
	ct.mu.Unlock()

	for conn := range conns {
		_ = conn.Close()
	}
	return len(conns)
}

// Snapshot returns the tracked connections, oldest first.
func (ct *connTracker) Snapshot() []peer {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	out := make([]peer, 0, len(ct.conns))
	for conn := range ct.conns {
		out = append(out, conn)
	}
	sort.Slice(out, func(i, j int) bool {
		return ct.conns[out[i]].Before(ct.conns[out[j]])
	})
	return out
}

// Len returns the number of tracked connections.
func (ct *connTracker) Len() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.conns)
}
