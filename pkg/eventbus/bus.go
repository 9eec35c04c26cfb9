package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is one published notification.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// Handler processes an event. A returned error is logged by the bus.
type Handler func(ctx context.Context, ev Event) error

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

// ClearedPayload is the payload of TopicClientsCleared.
type ClearedPayload struct {
	Count int `json:"count"`
}

type subscription struct {
	id      SubscriptionID
	topic   Topic // empty for catch-all
	handler Handler
}

// Bus is a synchronous fan-out event bus. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID SubscriptionID
	closed bool

	logger *slog.Logger
}

// New creates a bus. A nil logger discards handler failures.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// Subscribe registers handler for topic. An empty topic is ignored and
// returns 0; use SubscribeAll for every topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) SubscriptionID {
	if topic == "" {
		b.logger.Warn("ignoring subscription without topic")
		return 0
	}
	return b.add(topic, handler)
}

// SubscribeAll registers handler for every topic.
func (b *Bus) SubscribeAll(handler Handler) SubscriptionID {
	return b.add("", handler)
}

func (b *Bus) add(topic Topic, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, topic: topic, handler: handler})
	return b.nextID
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of handlers that would receive topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.topic == "" || s.topic == topic {
			n++
		}
	}
	return n
}

// Publish delivers payload to the subscribers of topic and waits for all of
// them to return.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	var handlers []Handler
	for _, s := range b.subs {
		if s.topic == "" || s.topic == topic {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	ev := Event{Topic: topic, Payload: payload, Time: time.Now()}

	if len(handlers) == 1 {
		b.safeCall(ctx, handlers[0], ev)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(handlers))
	for _, h := range handlers {
		go func(h Handler) {
			defer wg.Done()
			b.safeCall(ctx, h, ev)
		}(h)
	}
	wg.Wait()
}

func (b *Bus) safeCall(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"topic", ev.Topic,
				"panic", fmt.Sprint(r))
		}
	}()

	if err := h(ctx, ev); err != nil {
		b.logger.Warn("event handler failed",
			"topic", ev.Topic,
			"error", err)
	}
}

// Close stops delivery. Subsequent publications are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
}

// Closed reports whether Close has been called.
func (b *Bus) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}
