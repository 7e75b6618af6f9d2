package domain

import (
	"strings"
	"time"
)

// Unit is the measurement unit an ingredient is tracked in
type Unit string

const (
	UnitGram       Unit = "gram"
	UnitMilliliter Unit = "milliliter"
	UnitPiece      Unit = "piece"
)

// IsValid reports whether the unit is one of the supported units
func (u Unit) IsValid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// StockStatus classifies an ingredient's current stock level
type StockStatus string

const (
	StockStatusOut StockStatus = "Out of Stock"
	StockStatusLow StockStatus = "Low Stock"
	StockStatusIn  StockStatus = "In Stock"
)

// Ingredient is the aggregate root for a tracked stock item.
// Quantity never goes below zero; every mutation that commits must be
// paired with a ledger entry recorded by the application layer.
type Ingredient struct {
	ID           string  `bson:"_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	Unit         Unit    `bson:"unit" json:"unit"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	ReorderLevel float64 `bson:"reorderLevel" json:"reorderLevel"`

	// ReorderQuantity is the stock level a restock tops the ingredient
	// up to; PricePerUnit feeds cost reporting only.
	ReorderQuantity float64 `bson:"reorderQuantity" json:"reorderQuantity"`
	PricePerUnit    float64 `bson:"pricePerUnit" json:"pricePerUnit"`

	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
	DomainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewIngredient creates a new Ingredient aggregate
func NewIngredient(id, name string, unit Unit, quantity, reorderLevel, reorderQuantity, pricePerUnit float64) (*Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if !unit.IsValid() {
		return nil, ErrInvalidUnit
	}
	if quantity < 0 || reorderLevel < 0 || reorderQuantity < 0 || pricePerUnit < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &Ingredient{
		ID:              id,
		Name:            name,
		Unit:            unit,
		Quantity:        quantity,
		ReorderLevel:    reorderLevel,
		ReorderQuantity: reorderQuantity,
		PricePerUnit:    pricePerUnit,
		CreatedAt:       now,
		UpdatedAt:       now,
		DomainEvents:    make([]DomainEvent, 0),
	}, nil
}

// Status classifies the current quantity against the reorder level.
// Exactly zero is Out of Stock; strictly below the reorder level is
// Low Stock; everything else, including quantity equal to the reorder
// level, is In Stock.
func (i *Ingredient) Status() StockStatus {
	switch {
	case i.Quantity == 0:
		return StockStatusOut
	case i.Quantity < i.ReorderLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// IsLowStock reports whether the ingredient is below its reorder level
func (i *Ingredient) IsLowStock() bool {
	return i.Quantity < i.ReorderLevel
}

// CanCover reports whether the current quantity covers a requirement
func (i *Ingredient) CanCover(required float64) bool {
	return i.Quantity >= required
}

// Deduct removes quantity from stock. The caller must have validated
// sufficiency beforehand; Deduct still refuses to go negative.
func (i *Ingredient) Deduct(quantity float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Quantity < quantity {
		return &InsufficientStockError{
			IngredientID: i.ID,
			Ingredient:   i.Name,
			Needed:       quantity,
			Available:    i.Quantity,
		}
	}

	i.Quantity -= quantity
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(&StockDeductedEvent{
		IngredientID: i.ID,
		Ingredient:   i.Name,
		Quantity:     quantity,
		NewQuantity:  i.Quantity,
		DeductedAt:   i.UpdatedAt,
	})

	if i.IsLowStock() {
		i.AddDomainEvent(&LowStockAlertEvent{
			IngredientID:    i.ID,
			Ingredient:      i.Name,
			CurrentQuantity: i.Quantity,
			ReorderLevel:    i.ReorderLevel,
			AlertedAt:       i.UpdatedAt,
		})
	}

	return nil
}

// Refill adds quantity back to stock
func (i *Ingredient) Refill(quantity float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	i.Quantity += quantity
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(&StockRestoredEvent{
		IngredientID: i.ID,
		Ingredient:   i.Name,
		Quantity:     quantity,
		NewQuantity:  i.Quantity,
		RestoredAt:   i.UpdatedAt,
	})

	return nil
}

// AdjustTo sets the quantity to an absolute value. Negative targets are
// clamped to zero; this is the manual correction path, not the order
// path, which must fail instead of clamping.
func (i *Ingredient) AdjustTo(newQuantity float64) {
	if newQuantity < 0 {
		newQuantity = 0
	}

	i.Quantity = newQuantity
	i.UpdatedAt = time.Now()

	if i.IsLowStock() {
		i.AddDomainEvent(&LowStockAlertEvent{
			IngredientID:    i.ID,
			Ingredient:      i.Name,
			CurrentQuantity: i.Quantity,
			ReorderLevel:    i.ReorderLevel,
			AlertedAt:       i.UpdatedAt,
		})
	}
}

// RestockToReorderQuantity raises the quantity up to the reorder
// quantity. Stock already at or above that target is left untouched
// and the returned delta is zero.
func (i *Ingredient) RestockToReorderQuantity() float64 {
	if i.Quantity >= i.ReorderQuantity {
		return 0
	}
	delta := i.ReorderQuantity - i.Quantity
	i.Quantity = i.ReorderQuantity
	i.UpdatedAt = time.Now()
	return delta
}

// Domain event methods
func (i *Ingredient) AddDomainEvent(event DomainEvent) {
	i.DomainEvents = append(i.DomainEvents, event)
}

func (i *Ingredient) ClearDomainEvents() {
	i.DomainEvents = make([]DomainEvent, 0)
}

func (i *Ingredient) GetDomainEvents() []DomainEvent {
	return i.DomainEvents
}
