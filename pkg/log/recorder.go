package log

import (
	"context"
	"fmt"
	"sync"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
	"github.com/remotegamepad/remotegamepad-go/pkg/session"
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// Input also journals every routed input event.
	Input bool
}

// Recorder journals event bus traffic.
type Recorder struct {
	logger Logger
	config RecorderConfig

	mu   sync.Mutex
	bus  *eventbus.Bus
	subs []eventbus.SubscriptionID
}

// NewRecorder creates a recorder writing to logger. A nil logger discards.
func NewRecorder(logger Logger, config RecorderConfig) *Recorder {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Recorder{logger: logger, config: config}
}

// Attach subscribes the recorder to bus. A recorder is attached to at most
// one bus; attaching again moves it.
func (r *Recorder) Attach(bus *eventbus.Bus) {
	r.Detach()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.bus = bus
	for _, topic := range eventbus.Topics() {
		if topic == eventbus.TopicInputReceived && !r.config.Input {
			continue
		}
		r.subs = append(r.subs, bus.Subscribe(topic, r.handle))
	}
}

// Detach removes the recorder's subscriptions.
func (r *Recorder) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bus == nil {
		return
	}
	for _, id := range r.subs {
		r.bus.Unsubscribe(id)
	}
	r.subs = nil
	r.bus = nil
}

func (r *Recorder) handle(_ context.Context, ev eventbus.Event) error {
	entry, err := Convert(ev)
	if err != nil {
		return err
	}
	r.logger.Log(entry)
	return nil
}

// Convert maps a bus event to a journal event.
func Convert(ev eventbus.Event) (Event, error) {
	out := Event{
		Timestamp: ev.Time,
		Topic:     ev.Topic.String(),
	}

	switch p := ev.Payload.(type) {
	case session.Session:
		out.Category = CategoryClient
		out.ClientID = p.ID
		out.DeviceID = int(p.DeviceID)
		out.Client = clientEvent(p)

	case session.StatusChange:
		out.Category = CategoryClient
		out.ClientID = p.Session.ID
		out.DeviceID = int(p.Session.DeviceID)
		out.Client = clientEvent(p.Session)
		out.Client.PreviousStatus = p.Previous.String()

	case eventbus.ClearedPayload:
		out.Category = CategoryClient
		out.Cleared = &ClearedEvent{Count: p.Count}

	case device.Info:
		out.Category = CategoryDevice
		out.ClientID = p.ClientID
		out.DeviceID = int(p.ID)
		out.Device = &DeviceEvent{Name: p.Name, CreatedAt: p.CreatedAt}

	case device.Routed:
		out.Category = CategoryInput
		out.ClientID = p.Event.ClientID
		out.DeviceID = int(p.DeviceID)
		x, y := p.Event.DPadXY()
		out.Input = &InputEvent{
			Kind:       p.Event.Kind.String(),
			Control:    p.Event.Control,
			Value:      p.Event.Value,
			Pressed:    p.Event.Pressed,
			X:          x,
			Y:          y,
			ClientTime: p.Event.Timestamp,
		}

	default:
		return Event{}, fmt.Errorf("journal: unsupported payload %T on %s", ev.Payload, ev.Topic)
	}
	return out, nil
}

func clientEvent(s session.Session) *ClientEvent {
	return &ClientEvent{
		Origin:      s.Origin,
		UserAgent:   s.UserAgent,
		ProfileName: s.ProfileName,
		Status:      s.Status.String(),
		ConnectedAt: s.ConnectedAt,
	}
}
