package application

import (
	"context"

	"github.com/smartdine/restaurant-service/internal/domain"
)

// EventPublisher pushes domain events to the message broker. Publishing
// is best-effort: a failed publish is logged but never rolls back the
// storage transaction that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.DomainEvent) error
}

// NoopPublisher discards events; used when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	return nil
}
