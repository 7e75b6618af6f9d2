package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIngredient(t *testing.T) {
	ing, err := NewIngredient("ING-1", "Flour", UnitGram, 1000, 500, 2000, 0.05)
	require.NoError(t, err)

	assert.Equal(t, "ING-1", ing.ID)
	assert.Equal(t, "Flour", ing.Name)
	assert.Equal(t, UnitGram, ing.Unit)
	assert.Equal(t, 1000.0, ing.Quantity)
	assert.Equal(t, 500.0, ing.ReorderLevel)
	assert.Equal(t, 2000.0, ing.ReorderQuantity)
	assert.Equal(t, 0.05, ing.PricePerUnit)
}

func TestNewIngredient_Validation(t *testing.T) {
	_, err := NewIngredient("ING-1", "", UnitGram, 100, 50, 200, 1)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewIngredient("ING-1", "Flour", Unit("bogus"), 100, 50, 200, 1)
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = NewIngredient("ING-1", "Flour", UnitGram, -1, 50, 200, 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewIngredient("ING-1", "Flour", UnitGram, 100, 50, -200, 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewIngredient("ING-1", "Flour", UnitGram, 100, 50, 200, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestIngredient_Status(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 1000, 500, 2000, 0)

	assert.Equal(t, StockStatusIn, ing.Status())

	ing.Quantity = 499
	assert.Equal(t, StockStatusLow, ing.Status())

	// quantity exactly at the reorder level is still in stock
	ing.Quantity = 500
	assert.Equal(t, StockStatusIn, ing.Status())

	ing.Quantity = 0
	assert.Equal(t, StockStatusOut, ing.Status())
}

func TestIngredient_Deduct(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 1000, 500, 2000, 0)

	err := ing.Deduct(400)
	require.NoError(t, err)
	assert.Equal(t, 600.0, ing.Quantity)
}

func TestIngredient_Deduct_Insufficient(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 50, 500, 2000, 0)

	err := ing.Deduct(200)
	require.Error(t, err)

	ise, ok := AsInsufficientStock(err)
	require.True(t, ok)
	assert.Equal(t, "Flour", ise.Ingredient)
	assert.Equal(t, 200.0, ise.Needed)
	assert.Equal(t, 50.0, ise.Available)

	// failed deduction leaves quantity untouched
	assert.Equal(t, 50.0, ing.Quantity)
}

func TestIngredient_Deduct_InvalidQuantity(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 1000, 500, 2000, 0)

	assert.ErrorIs(t, ing.Deduct(0), ErrInvalidQuantity)
	assert.ErrorIs(t, ing.Deduct(-5), ErrInvalidQuantity)
}

func TestIngredient_Deduct_EmitsLowStockAlert(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 600, 500, 2000, 0)
	ing.ClearDomainEvents()

	require.NoError(t, ing.Deduct(200))

	var alerts []*LowStockAlertEvent
	for _, ev := range ing.GetDomainEvents() {
		if alert, ok := ev.(*LowStockAlertEvent); ok {
			alerts = append(alerts, alert)
		}
	}
	require.Len(t, alerts, 1)
	assert.Equal(t, 400.0, alerts[0].CurrentQuantity)
	assert.Equal(t, 500.0, alerts[0].ReorderLevel)
}

func TestIngredient_Refill(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 300, 500, 2000, 0)

	require.NoError(t, ing.Refill(400))
	assert.Equal(t, 700.0, ing.Quantity)

	assert.ErrorIs(t, ing.Refill(0), ErrInvalidQuantity)
}

func TestIngredient_AdjustTo_ClampsNegative(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 300, 500, 2000, 0)

	ing.AdjustTo(-50)
	assert.Equal(t, 0.0, ing.Quantity)

	ing.AdjustTo(800)
	assert.Equal(t, 800.0, ing.Quantity)
}

func TestIngredient_RestockToReorderQuantity(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 100, 500, 2000, 0)

	delta := ing.RestockToReorderQuantity()
	assert.Equal(t, 1900.0, delta)
	assert.Equal(t, 2000.0, ing.Quantity)

	// already at the target: no-op
	delta = ing.RestockToReorderQuantity()
	assert.Equal(t, 0.0, delta)
	assert.Equal(t, 2000.0, ing.Quantity)
}

func TestIngredient_RestockToReorderQuantity_AboveTarget(t *testing.T) {
	ing, _ := NewIngredient("ING-1", "Flour", UnitGram, 3000, 500, 2000, 0)

	delta := ing.RestockToReorderQuantity()
	assert.Equal(t, 0.0, delta)
	assert.Equal(t, 3000.0, ing.Quantity)
}
