package domain

import "time"

// DomainEvent is implemented by all domain events raised by aggregates
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StockDeductedEvent is raised when stock is deducted for a prepared item
type StockDeductedEvent struct {
	IngredientID string
	Ingredient   string
	Quantity     float64
	NewQuantity  float64
	DeductedAt   time.Time
}

func (e *StockDeductedEvent) EventType() string     { return "stock.deducted" }
func (e *StockDeductedEvent) OccurredAt() time.Time { return e.DeductedAt }

// StockRestoredEvent is raised when stock is returned after a cancellation
type StockRestoredEvent struct {
	IngredientID string
	Ingredient   string
	Quantity     float64
	NewQuantity  float64
	RestoredAt   time.Time
}

func (e *StockRestoredEvent) EventType() string     { return "stock.restored" }
func (e *StockRestoredEvent) OccurredAt() time.Time { return e.RestoredAt }

// LowStockAlertEvent is raised when an ingredient falls below its reorder level
type LowStockAlertEvent struct {
	IngredientID    string
	Ingredient      string
	CurrentQuantity float64
	ReorderLevel    float64
	AlertedAt       time.Time
}

func (e *LowStockAlertEvent) EventType() string     { return "stock.low_alert" }
func (e *LowStockAlertEvent) OccurredAt() time.Time { return e.AlertedAt }

// OrderPlacedEvent is raised when an order is accepted and stock committed
type OrderPlacedEvent struct {
	OrderID   string
	OrderType string
	PlacedAt  time.Time
}

func (e *OrderPlacedEvent) EventType() string     { return "order.placed" }
func (e *OrderPlacedEvent) OccurredAt() time.Time { return e.PlacedAt }

// OrderCancelledEvent is raised when a non-terminal order is cancelled
type OrderCancelledEvent struct {
	OrderID     string
	CancelledAt time.Time
}

func (e *OrderCancelledEvent) EventType() string     { return "order.cancelled" }
func (e *OrderCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }

// ReservationRequestedEvent is raised when a reservation is created
type ReservationRequestedEvent struct {
	ReservationID string
	TableID       string
	BookingTime   time.Time
	RequestedAt   time.Time
}

func (e *ReservationRequestedEvent) EventType() string     { return "reservation.requested" }
func (e *ReservationRequestedEvent) OccurredAt() time.Time { return e.RequestedAt }
