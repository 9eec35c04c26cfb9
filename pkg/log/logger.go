package log

// Logger receives journal events.
// Pass nil or NoopLogger to disable journaling.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	// Log is called from event bus handlers; blocking delays the publisher.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
