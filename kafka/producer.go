package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// ProducerAPI is the event publishing contract consumed by services.
// Publishing is best-effort everywhere it is used; a failed publish never
// fails the request that triggered it.
type ProducerAPI interface {
	Publish(ctx context.Context, key string, event any) error
}

// OrderCreatedEvent is emitted after an order confirmation commits
type OrderCreatedEvent struct {
	Event       string          `json:"event"`
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id"`
	UserOrderID int             `json:"user_order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Timestamp   time.Time       `json:"timestamp"`
}

// UserRegisteredEvent is emitted for Telegram registrations, which get an
// async confirmation instead of a token pair
type UserRegisteredEvent struct {
	Event     string    `json:"event"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	TgID      string    `json:"tg_id"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
