package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []OrderLine {
	return []OrderLine{
		{MenuItemID: "MENU-1", MenuItemName: "Pizza", Quantity: 2, UnitPrice: 12.5},
		{MenuItemID: "MENU-2", MenuItemName: "Pasta", Quantity: 1, UnitPrice: 9},
	}
}

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())
	require.NoError(t, err)

	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, PaymentCard, order.PaymentMethod)
	assert.Equal(t, 34.0, order.Total)
	assert.False(t, order.StockRestored)
	assert.Nil(t, order.CompletedAt)
	assert.Len(t, order.GetDomainEvents(), 1)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder("ORD-1", "Alice", OrderTypePickup, PaymentCash, "", nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewOrder("ORD-1", "Alice", OrderTypePickup, PaymentCash, "", []OrderLine{
		{MenuItemID: "MENU-1", Quantity: 0},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrderType_IsValid(t *testing.T) {
	for _, typ := range []OrderType{OrderTypeDineIn, OrderTypeDelivery, OrderTypePickup} {
		assert.True(t, typ.IsValid(), string(typ))
	}
	assert.False(t, OrderType("takeaway").IsValid())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, pm := range []PaymentMethod{PaymentCard, PaymentUPI, PaymentCash} {
		assert.True(t, pm.IsValid(), string(pm))
	}
	assert.False(t, PaymentMethod("Cheque").IsValid())
}

func TestOrder_ForwardTransitions(t *testing.T) {
	order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())

	for _, next := range []OrderStatus{OrderPreparing, OrderReady, OrderDelivered, OrderCompleted} {
		require.NoError(t, order.TransitionTo(next))
		assert.Equal(t, next, order.Status)
	}
}

func TestOrder_CompletionStampsCompletedAt(t *testing.T) {
	order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentUPI, "TBL-1", testLines())

	for _, next := range []OrderStatus{OrderPreparing, OrderReady, OrderDelivered} {
		require.NoError(t, order.TransitionTo(next))
		assert.Nil(t, order.CompletedAt)
	}

	require.NoError(t, order.TransitionTo(OrderCompleted))
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, order.UpdatedAt, *order.CompletedAt)
}

func TestOrder_SkippingStatusRejected(t *testing.T) {
	order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())

	err := order.TransitionTo(OrderReady)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, OrderPending, order.Status)
}

func TestOrder_CancelFromAnyNonTerminal(t *testing.T) {
	for _, status := range []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered} {
		order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())
		order.Status = status

		require.NoError(t, order.Cancel())
		assert.Equal(t, OrderCancelled, order.Status)
	}
}

func TestOrder_TerminalStatusesAreFinal(t *testing.T) {
	order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())
	order.Status = OrderCompleted

	assert.ErrorIs(t, order.Cancel(), ErrOrderNotCancellable)
	assert.ErrorIs(t, order.TransitionTo(OrderPreparing), ErrInvalidTransition)

	order.Status = OrderCancelled
	assert.ErrorIs(t, order.Cancel(), ErrOrderNotCancellable)
}

func TestOrder_MarkStockRestored(t *testing.T) {
	order, _ := NewOrder("ORD-1", "Alice", OrderTypeDineIn, PaymentCard, "TBL-1", testLines())

	order.MarkStockRestored()
	assert.True(t, order.StockRestored)
}
