package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidUnit         = errors.New("invalid unit")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOrderNotCancellable = errors.New("order is in a terminal status and cannot be cancelled")
	ErrEmptyOrder          = errors.New("order must contain at least one line")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrDuplicateIngredient = errors.New("ingredient already exists")
	ErrNoTableAvailable    = errors.New("no table available for the requested time")
	ErrTableUnavailable    = errors.New("table is not available for the requested time")
	ErrReservationInPast   = errors.New("booking time is in the past")
	ErrLedgerInconsistent  = errors.New("ledger entry quantities are inconsistent")
)

// InsufficientStockError reports the first ingredient that cannot cover
// a requested deduction. Validation walks requirements in ascending
// ingredient ID order, so the reported ingredient is deterministic for
// a given stock state.
type InsufficientStockError struct {
	IngredientID string
	Ingredient   string
	Needed       float64
	Available    float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: need %g, have %g", e.Ingredient, e.Needed, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// AsInsufficientStock extracts an InsufficientStockError from err
func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
