package domain

import (
	"math"
	"time"
)

// StockAction classifies why a ledger entry was written
type StockAction string

const (
	ActionAdded    StockAction = "Added"
	ActionUsed     StockAction = "Used"
	ActionAdjusted StockAction = "Adjusted"
	ActionReturned StockAction = "Returned"
	ActionDamaged  StockAction = "Damaged"
)

// IsValid reports whether the action is one of the known ledger actions
func (a StockAction) IsValid() bool {
	switch a {
	case ActionAdded, ActionUsed, ActionAdjusted, ActionReturned, ActionDamaged:
		return true
	}
	return false
}

// StockLedgerEntry is an immutable audit record of one stock mutation.
// Entries are append-only; the invariant NewQuantity - PreviousQuantity
// == QuantityChanged holds for every entry.
type StockLedgerEntry struct {
	ID               string      `bson:"_id" json:"id"`
	IngredientID     string      `bson:"ingredientId" json:"ingredientId"`
	IngredientName   string      `bson:"ingredientName" json:"ingredientName"`
	Action           StockAction `bson:"action" json:"action"`
	QuantityChanged  float64     `bson:"quantityChanged" json:"quantityChanged"`
	PreviousQuantity float64     `bson:"previousQuantity" json:"previousQuantity"`
	NewQuantity      float64     `bson:"newQuantity" json:"newQuantity"`
	Note             string      `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt        time.Time   `bson:"createdAt" json:"createdAt"`
}

// ledger quantities are float64; allow for accumulated rounding when
// checking the delta invariant
const ledgerEpsilon = 1e-9

// NewLedgerEntry builds a ledger entry from an observed quantity
// transition. QuantityChanged is derived, signed: negative for
// deductions, positive for additions.
func NewLedgerEntry(id string, ingredient *Ingredient, action StockAction, previousQuantity, newQuantity float64, note string) (*StockLedgerEntry, error) {
	if !action.IsValid() {
		return nil, ErrLedgerInconsistent
	}
	if previousQuantity < 0 || newQuantity < 0 {
		return nil, ErrLedgerInconsistent
	}

	return &StockLedgerEntry{
		ID:               id,
		IngredientID:     ingredient.ID,
		IngredientName:   ingredient.Name,
		Action:           action,
		QuantityChanged:  newQuantity - previousQuantity,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		Note:             note,
		CreatedAt:        time.Now(),
	}, nil
}

// Consistent verifies the delta invariant on an entry read back from
// storage
func (e *StockLedgerEntry) Consistent() bool {
	return math.Abs(e.NewQuantity-e.PreviousQuantity-e.QuantityChanged) < ledgerEpsilon
}
