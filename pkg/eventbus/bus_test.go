package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	bus := New(nil)
	ctx := context.Background()

	var got []Event
	var mu sync.Mutex
	record := func(_ context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
		return nil
	}

	bus.Subscribe(TopicClientConnected, record)
	bus.Subscribe(TopicClientConnected, record)
	bus.Subscribe(TopicDeviceCreated, record)

	bus.Publish(ctx, TopicClientConnected, "client_1")

	require.Len(t, got, 2)
	for _, ev := range got {
		assert.Equal(t, TopicClientConnected, ev.Topic)
		assert.Equal(t, "client_1", ev.Payload)
		assert.False(t, ev.Time.IsZero())
	}
}

func TestPublishWaitsForAllHandlers(t *testing.T) {
	bus := New(nil)
	var done atomic.Int32

	for i := 0; i < 3; i++ {
		bus.Subscribe(TopicClientDisconnected, func(context.Context, Event) error {
			time.Sleep(10 * time.Millisecond)
			done.Add(1)
			return nil
		})
	}

	bus.Publish(context.Background(), TopicClientDisconnected, nil)
	assert.Equal(t, int32(3), done.Load())
}

func TestPublishRunsHandlersConcurrently(t *testing.T) {
	bus := New(nil)
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)

	// Each handler waits for the other to have started; sequential
	// delivery would deadlock here.
	for i := 0; i < 2; i++ {
		bus.Subscribe(TopicDeviceReleased, func(context.Context, Event) error {
			started.Done()
			<-release
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), TopicDeviceReleased, nil)
		close(finished)
	}()

	started.Wait()
	close(release)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Publish did not return")
	}
}

func TestHandlerFailuresAreIsolated(t *testing.T) {
	bus := New(nil)
	var delivered atomic.Int32

	bus.Subscribe(TopicClientConnected, func(context.Context, Event) error {
		panic("boom")
	})
	bus.Subscribe(TopicClientConnected, func(context.Context, Event) error {
		return errors.New("handler error")
	})
	bus.Subscribe(TopicClientConnected, func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), TopicClientConnected, nil)
	})
	assert.Equal(t, int32(1), delivered.Load())
}

func TestSubscribeAll(t *testing.T) {
	bus := New(nil)
	var topics []Topic
	bus.SubscribeAll(func(_ context.Context, ev Event) error {
		topics = append(topics, ev.Topic)
		return nil
	})

	bus.Publish(context.Background(), TopicClientConnected, nil)
	bus.Publish(context.Background(), TopicDeviceCreated, nil)

	assert.Equal(t, []Topic{TopicClientConnected, TopicDeviceCreated}, topics)
	assert.Equal(t, 1, bus.SubscriberCount(TopicInputReceived))
}

func TestSubscribeEmptyTopicIsIgnored(t *testing.T) {
	bus := New(nil)
	var calls atomic.Int32
	id := bus.Subscribe("", func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})
	assert.Zero(t, id)

	bus.Publish(context.Background(), TopicClientConnected, nil)
	assert.Zero(t, calls.Load())
	assert.Equal(t, 0, bus.SubscriberCount(TopicClientConnected))

	// a later subscription still gets a usable ID
	next := bus.Subscribe(TopicClientConnected, func(context.Context, Event) error { return nil })
	assert.NotZero(t, next)
	assert.Equal(t, 1, bus.SubscriberCount(TopicClientConnected))
}

func TestUnsubscribe(t *testing.T) {
	bus := New(nil)
	var calls atomic.Int32
	h := func(context.Context, Event) error {
		calls.Add(1)
		return nil
	}

	id := bus.Subscribe(TopicClientConnected, h)
	bus.Subscribe(TopicClientConnected, h)
	bus.Unsubscribe(id)
	bus.Unsubscribe(id)
	bus.Unsubscribe(9999)

	bus.Publish(context.Background(), TopicClientConnected, nil)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, bus.SubscriberCount(TopicClientConnected))
}

func TestSubscribeFromHandlerAffectsLaterPublications(t *testing.T) {
	bus := New(nil)
	var late atomic.Int32

	bus.Subscribe(TopicClientConnected, func(context.Context, Event) error {
		bus.Subscribe(TopicClientConnected, func(context.Context, Event) error {
			late.Add(1)
			return nil
		})
		return nil
	})

	bus.Publish(context.Background(), TopicClientConnected, nil)
	assert.Equal(t, int32(0), late.Load())

	bus.Publish(context.Background(), TopicClientConnected, nil)
	assert.Equal(t, int32(1), late.Load())
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	bus := New(nil)
	var calls atomic.Int32
	bus.SubscribeAll(func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	bus.Close()
	assert.True(t, bus.Closed())

	bus.Publish(context.Background(), TopicClientConnected, nil)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTopics(t *testing.T) {
	for _, topic := range Topics() {
		assert.True(t, topic.Known(), topic)
	}
	assert.False(t, Topic("nope").Known())
}
