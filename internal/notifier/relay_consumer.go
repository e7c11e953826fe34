package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	relayAttempts = 3
	relayBackoff  = time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RelayConsumer is the mail relay side of KafkaRelay: it reads confirmation
// events from the topic and delivers them through another Notifier. The
// offset is committed only once a message is handled, so a crash mid-delivery
// redelivers it. A failed send is retried in place before it is given up. A
// repeated event id is skipped for the life of the process.
type RelayConsumer struct {
	reader  messageReader
	next    Notifier
	logger  *zap.Logger
	backoff time.Duration

	mu   sync.Mutex
	seen map[uuid.UUID]struct{}
}

// NewRelayConsumer joins groupID on topic and relays through next.
func NewRelayConsumer(next Notifier, topic, groupID string, l *zap.Logger, brokers ...string) *RelayConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newRelayConsumer(reader, next, l)
}

func newRelayConsumer(reader messageReader, next Notifier, l *zap.Logger) *RelayConsumer {
	return &RelayConsumer{
		reader:  reader,
		next:    next,
		logger:  logger.OrNop(l),
		backoff: relayBackoff,
		seen:    make(map[uuid.UUID]struct{}),
	}
}

// Run blocks until ctx is cancelled.
func (c *RelayConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *RelayConsumer) Close() error {
	return c.reader.Close()
}

func (c *RelayConsumer) processMessage(ctx context.Context) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.logger.Warn("failed to fetch relay event", zap.Error(err))
		return
	}

	if !c.handle(ctx, m) {
		return
	}
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.logger.Warn("failed to commit relay event", zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

// handle reports whether m is done with and may be committed. Only a
// cancelled ctx leaves a message uncommitted.
func (c *RelayConsumer) handle(ctx context.Context, m kafka.Message) bool {
	if eventType := header(m, "event_type"); eventType != "" && eventType != relayEventType {
		c.logger.Debug("skipping event", zap.String("event_type", eventType))
		return true
	}

	var event RelayEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.logger.Warn("failed to parse relay event", zap.ByteString("key", m.Key), zap.Error(err))
		return true
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		c.logger.Warn("invalid relay event id", zap.String("id", event.ID), zap.Error(err))
		return true
	}
	if c.delivered(id) {
		c.logger.Info("relay event already delivered, skipping", zap.String("order_number", event.OrderNumber))
		return true
	}

	msg := Message{
		To:          event.To,
		Subject:     event.Subject,
		Body:        event.Body,
		OrderNumber: event.OrderNumber,
	}
	for attempt := 1; attempt <= relayAttempts; attempt++ {
		err = c.next.Send(ctx, msg)
		if err == nil {
			c.markDelivered(id)
			c.logger.Info("confirmation delivered",
				zap.String("order_number", event.OrderNumber), zap.String("to", event.To))
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		logger.WithContext(ctx, c.logger).Warn("failed to deliver confirmation",
			zap.String("order_number", event.OrderNumber), zap.Int("attempt", attempt), zap.Error(err))
		if attempt < relayAttempts {
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return false
			}
		}
	}

	c.logger.Error("giving up on confirmation", zap.String("order_number", event.OrderNumber))
	return true
}

func (c *RelayConsumer) delivered(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[id]
	return ok
}

func (c *RelayConsumer) markDelivered(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[id] = struct{}{}
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
