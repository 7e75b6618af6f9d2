package domain

import (
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderDelivered OrderStatus = "Delivered"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// IsValid reports whether the status is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// forward transitions; cancellation is handled separately because it
// is allowed from any non-terminal status
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderPending:   OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderDelivered,
	OrderDelivered: OrderCompleted,
}

// CanTransitionTo reports whether the status may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderTransitions[s] == next
}

// OrderType distinguishes how an order is fulfilled
type OrderType string

const (
	OrderTypeDineIn   OrderType = "Dine-in"
	OrderTypeDelivery OrderType = "Delivery"
	OrderTypePickup   OrderType = "Pickup"
)

// IsValid reports whether the type is a known order type
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeDelivery, OrderTypePickup:
		return true
	}
	return false
}

// PaymentMethod is how an order is paid
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCash PaymentMethod = "Cash"
)

// IsValid reports whether the payment method is a known method
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCard, PaymentUPI, PaymentCash:
		return true
	}
	return false
}

// OrderLine is one menu item position within an order
type OrderLine struct {
	MenuItemID   string  `bson:"menuItemId" json:"menuItemId"`
	MenuItemName string  `bson:"menuItemName" json:"menuItemName"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	UnitPrice    float64 `bson:"unitPrice" json:"unitPrice"`
	Instructions string  `bson:"instructions,omitempty" json:"instructions,omitempty"`
}

// Order is the aggregate root for a customer order. Stock for every
// line is deducted atomically when the order is placed, and restored
// exactly once if the order is later cancelled.
type Order struct {
	ID            string        `bson:"_id" json:"id"`
	CustomerName  string        `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Type          OrderType     `bson:"type" json:"type"`
	TableID       string        `bson:"tableId,omitempty" json:"tableId,omitempty"`
	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	Status        OrderStatus   `bson:"status" json:"status"`
	Lines         []OrderLine   `bson:"lines" json:"lines"`
	Total         float64       `bson:"total" json:"total"`

	// StockRestored guards the cancel path so a cancelled order can
	// never refund its ingredients twice.
	StockRestored bool `bson:"stockRestored" json:"stockRestored"`

	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
	CompletedAt  *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	DomainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewOrder creates a new pending order
func NewOrder(id, customerName string, orderType OrderType, payment PaymentMethod, tableID string, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	total := 0.0
	for _, line := range lines {
		total += line.UnitPrice * float64(line.Quantity)
	}

	now := time.Now()
	order := &Order{
		ID:            id,
		CustomerName:  customerName,
		Type:          orderType,
		TableID:       tableID,
		PaymentMethod: payment,
		Status:        OrderPending,
		Lines:         lines,
		Total:         total,
		CreatedAt:     now,
		UpdatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}

	order.AddDomainEvent(&OrderPlacedEvent{
		OrderID:   id,
		OrderType: string(orderType),
		PlacedAt:  now,
	})

	return order, nil
}

// TransitionTo moves the order to the next status
func (o *Order) TransitionTo(next OrderStatus) error {
	if !next.IsValid() {
		return ErrInvalidTransition
	}
	if !o.Status.CanTransitionTo(next) {
		if next == OrderCancelled {
			return ErrOrderNotCancellable
		}
		return ErrInvalidTransition
	}

	o.Status = next
	o.UpdatedAt = time.Now()

	if next == OrderCompleted {
		completed := o.UpdatedAt
		o.CompletedAt = &completed
	}

	if next == OrderCancelled {
		o.AddDomainEvent(&OrderCancelledEvent{
			OrderID:     o.ID,
			CancelledAt: o.UpdatedAt,
		})
	}

	return nil
}

// Cancel moves a non-terminal order to Cancelled
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderCancelled)
}

// MarkStockRestored records that the cancellation refund has been
// committed
func (o *Order) MarkStockRestored() {
	o.StockRestored = true
	o.UpdatedAt = time.Now()
}

// Domain event methods
func (o *Order) AddDomainEvent(event DomainEvent) {
	o.DomainEvents = append(o.DomainEvents, event)
}

func (o *Order) ClearDomainEvents() {
	o.DomainEvents = make([]DomainEvent, 0)
}

func (o *Order) GetDomainEvents() []DomainEvent {
	return o.DomainEvents
}
