package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const relayEventType = "OrderConfirmationRequested"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RelayEvent is the payload published for an external mail relay to pick up.
type RelayEvent struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// KafkaRelay hands messages to an email relay service through a kafka topic.
type KafkaRelay struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaRelay(topic string, brokers ...string) *KafkaRelay {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaRelay{writer: w, now: time.Now}
}

func (k *KafkaRelay) Send(ctx context.Context, msg Message) error {
	event := RelayEvent{
		ID:          uuid.NewString(),
		OrderNumber: msg.OrderNumber,
		To:          msg.To,
		Subject:     msg.Subject,
		Body:        msg.Body,
		CreatedAt:   k.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal relay event: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderNumber), // order number for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(relayEventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish relay event: %w", err)
	}
	return nil
}

func (k *KafkaRelay) Close() error {
	return k.writer.Close()
}
