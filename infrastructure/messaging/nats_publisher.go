package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"topic-tasks/domain/ports"
	"topic-tasks/pkg/logger"
)

const (
	subjectGenerated     = "generated"
	subjectStatusChanged = "status_changed"

	drainTimeout      = 10 * time.Second
	drainPollInterval = 10 * time.Millisecond
)

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
	IsClosed() bool
	Close()
}

type NATSPublisher struct {
	nc           natsConn
	prefix       string
	drainTimeout time.Duration
	logger       *slog.Logger
}

// Connect dials NATS with endless reconnects.
func Connect(url string) (*nats.Conn, error) {
	log := logger.Component("nats")
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DrainTimeout(drainTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return newNATSPublisher(nc, prefix)
}

func newNATSPublisher(nc natsConn, prefix string) *NATSPublisher {
	return &NATSPublisher{
		nc:           nc,
		prefix:       prefix,
		drainTimeout: drainTimeout,
		logger:       logger.Component("nats_publisher"),
	}
}

func (p *NATSPublisher) Subject(kind string) string {
	return p.prefix + "." + kind
}

// PublishTasksGenerated subject: {prefix}.generated
func (p *NATSPublisher) PublishTasksGenerated(ctx context.Context, event ports.TasksGeneratedEvent) error {
	return p.publish(ctx, p.Subject(subjectGenerated), event)
}

// PublishTaskStatusChanged subject: {prefix}.status_changed
func (p *NATSPublisher) PublishTaskStatusChanged(ctx context.Context, event ports.TaskStatusChangedEvent) error {
	return p.publish(ctx, p.Subject(subjectStatusChanged), event)
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "Event published", "subject", subject, "bytes", len(data))
	return nil
}

// Close flushes pending events and returns once the connection is closed.
// Drain itself is asynchronous; past drainTimeout the connection is closed
// and remaining events are dropped.
func (p *NATSPublisher) Close() error {
	if p.nc.IsClosed() {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	deadline := time.Now().Add(p.drainTimeout)
	for !p.nc.IsClosed() {
		if time.Now().After(deadline) {
			p.nc.Close()
			return fmt.Errorf("NATS drain did not finish within %s", p.drainTimeout)
		}
		time.Sleep(drainPollInterval)
	}

	p.logger.Info("NATS connection drained")
	return nil
}

var _ ports.TaskEventPublisher = (*NATSPublisher)(nil)
