// Package amqp publishes order change events to connected clients through a
// fanout exchange. Clients only learn which orders changed and re-fetch them.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// EventType is the type field of a change message.
type EventType string

const (
	// OrdersChanged tells clients the set of orders changed.
	OrdersChanged EventType = "ORDERS_CHANGED"
	// OrderUpdated tells clients one known order changed.
	OrderUpdated EventType = "ORDER_UPDATED"
)

// ChangeEvent is the message body.
type ChangeEvent struct {
	EventType EventType `json:"eventType"`
	Subjects  []string  `json:"subjects"`
}

// Channel is the part of an AMQP channel the broadcaster publishes with.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Broadcaster publishes order changes to a fanout exchange.
type Broadcaster struct {
	mu       sync.Mutex
	channel  Channel
	exchange string
	logger   *slog.Logger
}

// NewBroadcaster declares the durable fanout exchange.
func NewBroadcaster(channel Channel, exchange string, logger *slog.Logger) (*Broadcaster, error) {
	if err := channel.ExchangeDeclare(exchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Broadcaster{
		channel:  channel,
		exchange: exchange,
		logger:   logger.With("component", "order_broadcaster"),
	}, nil
}

func (b *Broadcaster) Broadcast(ctx context.Context, eventType EventType, subjects ...kernel.UUID) error {
	event := ChangeEvent{EventType: eventType, Subjects: make([]string, 0, len(subjects))}
	for _, s := range subjects {
		event.Subjects = append(event.Subjects, s.String())
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	b.mu.Lock()
	err = b.channel.PublishWithContext(ctx, b.exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	b.logger.DebugContext(ctx, "Broadcast change event", "event_type", string(eventType), "subjects", event.Subjects)
	return nil
}

// Observer subscribes to every order event. Creation and deletion change the
// set of orders, everything else updates a single one.
func (b *Broadcaster) Observer() observers.Observer {
	return observers.Observer{
		Name: "client_broadcast",
		Handle: func(ctx context.Context, event observers.Event) error {
			return b.Broadcast(ctx, eventTypeOf(event.Kind), event.OrderID)
		},
	}
}

func eventTypeOf(kind observers.EventKind) EventType {
	switch kind {
	case observers.OrderCreated, observers.BeforeOrderDeleted:
		return OrdersChanged
	default:
		return OrderUpdated
	}
}
