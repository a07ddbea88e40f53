package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/safar/storefront/internal/config"
	"github.com/segmentio/kafka-go"
)

// Publisher emits order lifecycle events. A nil Publisher is a no-op, so
// callers never need to check whether kafka is configured.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when no broker is configured.
func NewPublisher(cfg *config.KafkaConfig) *Publisher {
	if cfg.Broker == "" {
		return nil
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Broker),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type OrderEvent struct {
	Kind       string    `json:"kind"`
	CheckoutID string    `json:"checkout_id,omitempty"`
	OrderID    int64     `json:"order_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *Publisher) OrderPlaced(ctx context.Context, checkoutID string, userID int64) error {
	return p.publish(ctx, OrderEvent{
		Kind:       "placed",
		CheckoutID: checkoutID,
		UserID:     userID,
		OccurredAt: time.Now(),
	}, fmt.Sprintf("order-placed-%s", checkoutID))
}

func (p *Publisher) OrderCancelled(ctx context.Context, orderID int64) error {
	return p.publish(ctx, OrderEvent{
		Kind:       "cancelled",
		OrderID:    orderID,
		OccurredAt: time.Now(),
	}, fmt.Sprintf("order-cancelled-%d", orderID))
}

func (p *Publisher) publish(ctx context.Context, event OrderEvent, key string) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
