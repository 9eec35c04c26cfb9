package discovery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
)

// Publisher advertises a host and keeps its "free" TXT record in step with
// device creation and release.
type Publisher struct {
	adv    Advertiser
	free   func() int
	logger *slog.Logger

	mu   sync.Mutex
	info HostInfo
	bus  *eventbus.Bus
	subs []eventbus.SubscriptionID
}

// NewPublisher creates a publisher for info. free reports the number of
// devices still available; it is consulted on every device event.
func NewPublisher(adv Advertiser, info HostInfo, free func() int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		adv:    adv,
		info:   info,
		free:   free,
		logger: logger,
	}
}

// Start advertises the host and subscribes to device events on bus.
func (p *Publisher) Start(ctx context.Context, bus *eventbus.Bus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.free != nil {
		p.info.Free = p.free()
	}
	info := p.info
	if err := p.adv.Advertise(ctx, &info); err != nil {
		return err
	}

	if bus != nil {
		p.bus = bus
		p.subs = append(p.subs,
			bus.Subscribe(eventbus.TopicDeviceCreated, p.onDeviceChange),
			bus.Subscribe(eventbus.TopicDeviceReleased, p.onDeviceChange),
		)
	}

	p.logger.Info("advertising host",
		"instance", info.InstanceName,
		"service", ServiceType,
		"port", info.Port,
		"free", info.Free)
	return nil
}

// Stop unsubscribes and withdraws the advertisement.
func (p *Publisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus != nil {
		for _, id := range p.subs {
			p.bus.Unsubscribe(id)
		}
	}
	p.bus = nil
	p.subs = nil
	p.adv.Stop()
}

// Info returns the currently advertised host info.
func (p *Publisher) Info() HostInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

func (p *Publisher) onDeviceChange(_ context.Context, ev eventbus.Event) error {
	if p.free == nil {
		return nil
	}
	free := p.free()

	p.mu.Lock()
	defer p.mu.Unlock()

	if free == p.info.Free {
		return nil
	}
	p.info.Free = free
	info := p.info
	if err := p.adv.Update(&info); err != nil {
		return err
	}
	p.logger.Debug("advertisement updated", "topic", ev.Topic, "free", free)
	return nil
}
