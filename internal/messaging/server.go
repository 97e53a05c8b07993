package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EventBus is an embedded NATS server carrying the game's telemetry events.
// Publishing is fire-and-forget: the game never waits on, or fails because
// of, the bus.
type EventBus struct {
	ns   *server.Server
	conn *nats.Conn

	startupTimeout time.Duration
	host           string
	port           int
	logSubjects    string
}

type EventBusOpt func(*EventBus)

// WithStartTimeout sets the startup timeout for the embedded server
func WithStartTimeout(d time.Duration) EventBusOpt {
	return func(b *EventBus) {
		b.startupTimeout = d
	}
}

// WithHost sets the host for the embedded server
func WithHost(host string) EventBusOpt {
	return func(b *EventBus) {
		b.host = host
	}
}

// WithPort sets the port for the embedded server
func WithPort(port int) EventBusOpt {
	return func(b *EventBus) {
		b.port = port
	}
}

// WithLogSubjects makes Start log every event published under the given
// subject pattern.
func WithLogSubjects(pattern string) EventBusOpt {
	return func(b *EventBus) {
		b.logSubjects = pattern
	}
}

func NewEventBus(opts ...EventBusOpt) (*EventBus, error) {
	b := &EventBus{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(b)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   b.host,
		Port:   b.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	b.ns = ns

	return b, nil
}

func (b *EventBus) Start(ctx context.Context) error {
	b.ns.Start()

	if !b.ns.ReadyForConnections(b.startupTimeout) {
		return fmt.Errorf("event bus not ready for connections")
	}

	conn, err := nats.Connect(b.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating event bus client connection: %w", err)
	}
	b.conn = conn

	if b.logSubjects != "" {
		unsub, err := b.Subscribe(b.logSubjects, func(subject string, data []byte) {
			slog.InfoContext(ctx, "game event", "subject", subject, "event", string(data))
		})
		if err != nil {
			return fmt.Errorf("subscribing event logger: %w", err)
		}
		defer unsub()
	}

	slog.InfoContext(ctx, "event bus listening", "addr", b.ns.Addr())

	<-ctx.Done()
	b.conn.Close()
	b.ns.Shutdown()
	b.ns.WaitForShutdown()

	return nil
}

// Subscribe creates a subscription on the given subject pattern.
// Returns an unsubscribe function to remove the subscription.
func (b *EventBus) Subscribe(subject string, handler func(subject string, data []byte)) (func(), error) {
	if b.conn == nil {
		return nil, fmt.Errorf("event bus not started")
	}
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject
func (b *EventBus) Publish(subject string, data []byte) error {
	if b.conn == nil {
		return fmt.Errorf("event bus not started")
	}
	return b.conn.Publish(subject, data)
}
