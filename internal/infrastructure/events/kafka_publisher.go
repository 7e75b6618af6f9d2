package events

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/kafka"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
	"github.com/smartdine/restaurant-service/pkg/resilience"
	"github.com/smartdine/restaurant-service/pkg/tracing"
)

const eventSource = "restaurant-service"

// KafkaPublisher routes domain events onto the restaurant topics.
// Publishing is best effort; storage has already committed by the time
// events are emitted, and a broker outage must not fail the request.
// A circuit breaker stops the service hammering a dead broker.
type KafkaPublisher struct {
	producer *kafka.Producer
	breaker  *resilience.CircuitBreaker
	tracer   trace.Tracer
	logger   *logging.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, tracer trace.Tracer, m *metrics.Metrics, logger *logging.Logger) *KafkaPublisher {
	var recorder resilience.StateRecorder
	if m != nil {
		recorder = m
	}
	if tracer == nil {
		tracer = otel.Tracer("kafka")
	}
	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("kafka-publisher"),
		logger.Logger,
		recorder,
	)
	return &KafkaPublisher{producer: producer, breaker: breaker, tracer: tracer, logger: logger}
}

// Publish sends each event to the topic matching its type prefix.
// Events for the same subject share a partition key, preserving per
// ingredient and per order ordering.
func (p *KafkaPublisher) Publish(ctx context.Context, domainEvents ...domain.DomainEvent) error {
	for _, ev := range domainEvents {
		topic := topicFor(ev.EventType())
		event, err := kafka.NewEvent(ev.EventType(), eventSource, subjectFor(ev), ev)
		if err != nil {
			p.logger.Warn("Failed to encode domain event", "type", ev.EventType(), "error", err)
			continue
		}
		_, err = tracing.TracedOperation(ctx, p.tracer, "kafka.publish", func(ctx context.Context) (interface{}, error) {
			trace.SpanFromContext(ctx).SetAttributes(
				tracing.MessagingSpanAttributes("kafka", topic, "publish")...,
			)
			return p.breaker.Execute(ctx, func() (interface{}, error) {
				return nil, p.producer.PublishEvent(ctx, topic, event)
			})
		})
		if err != nil {
			p.logger.Warn("Failed to publish domain event",
				"type", ev.EventType(), "topic", topic, "error", err)
		}
	}
	return nil
}

func topicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "order."):
		return kafka.Topics.OrderEvents
	case strings.HasPrefix(eventType, "reservation."):
		return kafka.Topics.ReservationEvents
	default:
		return kafka.Topics.StockEvents
	}
}

func subjectFor(ev domain.DomainEvent) string {
	switch e := ev.(type) {
	case *domain.StockDeductedEvent:
		return e.IngredientID
	case *domain.StockRestoredEvent:
		return e.IngredientID
	case *domain.LowStockAlertEvent:
		return e.IngredientID
	case *domain.OrderPlacedEvent:
		return e.OrderID
	case *domain.OrderCancelledEvent:
		return e.OrderID
	case *domain.ReservationRequestedEvent:
		return e.ReservationID
	default:
		return ev.EventType()
	}
}
