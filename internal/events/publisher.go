// Package events announces committed orders to the rest of the platform.
// Publishing is best-effort: the order is already durable when an event goes
// out, and a broker outage must never fail the write that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dkhamitov/order-service/internal/domain"
)

type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

type orderCreated struct {
	Type  string       `json:"type"`
	Order domain.Order `json:"order"`
}

type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// OrderCreated keys messages by user so one user's events stay ordered.
func (k *Kafka) OrderCreated(ctx context.Context, order *domain.Order) error {
	value, err := json.Marshal(orderCreated{Type: "order.created", Order: *order})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(order.UserID, 10)),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) OrderCreated(context.Context, *domain.Order) error { return nil }
