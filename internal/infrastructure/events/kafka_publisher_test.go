package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/kafka"
)

func TestTopicRouting(t *testing.T) {
	tests := []struct {
		eventType string
		topic     string
	}{
		{"stock.deducted", kafka.Topics.StockEvents},
		{"stock.restored", kafka.Topics.StockEvents},
		{"stock.low_alert", kafka.Topics.StockEvents},
		{"order.placed", kafka.Topics.OrderEvents},
		{"order.cancelled", kafka.Topics.OrderEvents},
		{"reservation.requested", kafka.Topics.ReservationEvents},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.topic, topicFor(tt.eventType), tt.eventType)
	}
}

func TestSubjectKeysFollowTheAggregate(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "ing-1", subjectFor(&domain.StockDeductedEvent{IngredientID: "ing-1", DeductedAt: now}))
	assert.Equal(t, "ing-2", subjectFor(&domain.LowStockAlertEvent{IngredientID: "ing-2", AlertedAt: now}))
	assert.Equal(t, "ord-1", subjectFor(&domain.OrderPlacedEvent{OrderID: "ord-1", PlacedAt: now}))
	assert.Equal(t, "res-1", subjectFor(&domain.ReservationRequestedEvent{ReservationID: "res-1", RequestedAt: now}))
}
