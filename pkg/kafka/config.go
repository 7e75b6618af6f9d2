package kafka

import (
	"time"
)

// Config holds Kafka configuration
type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string

	// Producer settings
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack

	// Consumer settings
	MinBytes int
	MaxBytes int
	MaxWait  time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:       []string{"localhost:9092"},
		ConsumerGroup: "restaurant-default-group",
		ClientID:      "restaurant-service",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1, // All replicas

		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
		MaxWait:  500 * time.Millisecond,
	}
}

// Topics contains all restaurant Kafka topic names
var Topics = struct {
	StockEvents       string
	OrderEvents       string
	ReservationEvents string
}{
	StockEvents:       "restaurant.stock.events",
	OrderEvents:       "restaurant.orders.events",
	ReservationEvents: "restaurant.reservations.events",
}
