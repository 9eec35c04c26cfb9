package mqttbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/remotegamepad/remotegamepad-go/pkg/eventbus"
)

// Defaults.
const (
	DefaultPrefix         = "remotepad"
	DefaultQoS            = 1
	DefaultPublishTimeout = 2 * time.Second
	DefaultClientID       = "remotepad-host"
	DefaultConnectRetries = 5
)

// ErrInvalidConfig is returned for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid mqtt bridge configuration")

// Publisher is the subset of mqtt.Client the bridge uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

var _ Publisher = (mqtt.Client)(nil)

// DefaultTopics are the bus topics forwarded when Config.Topics is empty.
// Input is left out; it is far too chatty for a broker.
var DefaultTopics = []eventbus.Topic{
	eventbus.TopicClientConnected,
	eventbus.TopicClientDisconnected,
	eventbus.TopicClientProfileUpdated,
	eventbus.TopicClientStatusChanged,
	eventbus.TopicClientsCleared,
	eventbus.TopicDeviceCreated,
	eventbus.TopicDeviceReleased,
}

// Config configures a Bridge.
type Config struct {
	// Broker is the broker URL, e.g. "tcp://localhost:1883".
	Broker   string
	ClientID string
	Username string
	Password string

	// Prefix is prepended to every MQTT topic.
	Prefix string

	QoS byte

	// PublishTimeout bounds the wait for a broker acknowledgement.
	PublishTimeout time.Duration

	// Topics selects the forwarded bus topics. Empty means DefaultTopics.
	Topics []eventbus.Topic

	// ConnectRetries is the number of initial connection attempts.
	ConnectRetries int

	// Backoff spaces the initial connection attempts.
	Backoff BackoffConfig

	Logger *slog.Logger
}

// DefaultConfig returns a configuration without a broker.
func DefaultConfig() Config {
	return Config{
		ClientID:       DefaultClientID,
		Prefix:         DefaultPrefix,
		QoS:            DefaultQoS,
		PublishTimeout: DefaultPublishTimeout,
		ConnectRetries: DefaultConnectRetries,
		Backoff:        BackoffConfig{Jitter: JitterFactor},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.QoS > 2 {
		return fmt.Errorf("%w: qos %d", ErrInvalidConfig, c.QoS)
	}
	if c.PublishTimeout < 0 {
		return fmt.Errorf("%w: negative publish timeout", ErrInvalidConfig)
	}
	for _, t := range c.Topics {
		if !t.Known() {
			return fmt.Errorf("%w: unknown topic %q", ErrInvalidConfig, t)
		}
	}
	return nil
}

// Message is the JSON document published for every event.
type Message struct {
	Topic eventbus.Topic `json:"topic"`
	Time  time.Time      `json:"time"`
	Data  any            `json:"data,omitempty"`
}

// Bridge subscribes to bus topics and republishes them over MQTT.
type Bridge struct {
	pub    Publisher
	config Config
	logger *slog.Logger

	// client is set when the bridge owns the connection.
	client mqtt.Client

	mu   sync.Mutex
	bus  *eventbus.Bus
	subs []eventbus.SubscriptionID
}

// New creates a bridge publishing through pub.
func New(pub Publisher, config Config) (*Bridge, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: publisher is required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(config.Topics) == 0 {
		config.Topics = DefaultTopics
	}
	if config.PublishTimeout == 0 {
		config.PublishTimeout = DefaultPublishTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{pub: pub, config: config, logger: logger}, nil
}

// Dial connects to config.Broker and returns a bridge that owns the
// connection. Failed attempts are retried with backoff until
// ConnectRetries is exhausted or ctx is done. Close disconnects.
func Dial(ctx context.Context, config Config) (*Bridge, error) {
	if config.Broker == "" {
		return nil, fmt.Errorf("%w: broker is required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ClientID == "" {
		config.ClientID = DefaultClientID
	}
	if config.ConnectRetries <= 0 {
		config.ConnectRetries = 1
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("mqtt connected", "broker", config.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "broker", config.Broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	err := retry(ctx, NewBackoff(config.Backoff), config.ConnectRetries, func() error {
		token := client.Connect()
		if token.Wait() && token.Error() != nil {
			logger.Debug("mqtt connect attempt failed", "broker", config.Broker, "error", token.Error())
			return token.Error()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	b, err := New(client, config)
	if err != nil {
		client.Disconnect(250)
		return nil, err
	}
	b.client = client
	return b, nil
}

// Start subscribes the bridge to bus.
func (b *Bridge) Start(bus *eventbus.Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bus != nil {
		return
	}
	b.bus = bus
	for _, topic := range b.config.Topics {
		b.subs = append(b.subs, bus.Subscribe(topic, b.forward))
	}
}

// Stop unsubscribes from the bus.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bus == nil {
		return
	}
	for _, id := range b.subs {
		b.bus.Unsubscribe(id)
	}
	b.bus = nil
	b.subs = nil
}

// Close stops the bridge and disconnects an owned client.
func (b *Bridge) Close() {
	b.Stop()
	if b.client != nil {
		b.client.Disconnect(250)
	}
}

// TopicFor returns the MQTT topic of a bus topic.
func (b *Bridge) TopicFor(topic eventbus.Topic) string {
	prefix := strings.TrimSuffix(b.config.Prefix, "/")
	if prefix == "" {
		return string(topic)
	}
	return prefix + "/" + string(topic)
}

func (b *Bridge) forward(_ context.Context, ev eventbus.Event) error {
	payload, err := json.Marshal(Message{Topic: ev.Topic, Time: ev.Time, Data: ev.Payload})
	if err != nil {
		b.logger.Warn("mqtt payload encoding failed", "topic", ev.Topic, "error", err)
		return nil
	}

	topic := b.TopicFor(ev.Topic)
	token := b.pub.Publish(topic, b.config.QoS, false, payload)
	if !token.WaitTimeout(b.config.PublishTimeout) {
		b.logger.Warn("mqtt publish timed out", "topic", topic)
		return nil
	}
	if err := token.Error(); err != nil {
		b.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
		return nil
	}
	b.logger.Debug("mqtt published", "topic", topic)
	return nil
}
