package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher emits order lifecycle events. A nil Publisher is a no-op so
// callers never need to guard for an unconfigured broker.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(topic string, brokers ...string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

type orderPlacedEvent struct {
	OrderID      string    `json:"order_id"`
	Total        float64   `json:"total"`
	ShippingCost float64   `json:"shipping_cost"`
	PlacedAt     time.Time `json:"placed_at"`
}

// OrderPlaced publishes a completion event. Publish failures are logged
// and never fail the placement itself.
func (p *Publisher) OrderPlaced(ctx context.Context, orderID string, total, shippingCost float64) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:      orderID,
		Total:        total,
		ShippingCost: shippingCost,
		PlacedAt:     time.Now().UTC(),
	})
	if err != nil {
		log.Printf("failed to marshal order event for %v: %v", orderID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(orderID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish order event for %v: %v", orderID, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
