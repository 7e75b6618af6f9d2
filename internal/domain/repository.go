package domain

import (
	"context"
	"time"
)

// IngredientRepository persists Ingredient aggregates
type IngredientRepository interface {
	Save(ctx context.Context, ingredient *Ingredient) error
	Update(ctx context.Context, ingredient *Ingredient) error
	FindByID(ctx context.Context, id string) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Ingredient, error)
	FindByName(ctx context.Context, name string) (*Ingredient, error)
	FindAll(ctx context.Context) ([]*Ingredient, error)
	Delete(ctx context.Context, id string) error
}

// LedgerRepository appends and reads immutable stock ledger entries
type LedgerRepository interface {
	Append(ctx context.Context, entries ...*StockLedgerEntry) error
	FindByIngredient(ctx context.Context, ingredientID string, limit int64) ([]*StockLedgerEntry, error)
	FindAll(ctx context.Context, limit int64) ([]*StockLedgerEntry, error)
}

// RecipeRepository persists the recipe graph
type RecipeRepository interface {
	Upsert(ctx context.Context, requirement *RecipeRequirement) error
	Remove(ctx context.Context, menuItemID, ingredientID string) error
	FindByMenuItem(ctx context.Context, menuItemID string) ([]*RecipeRequirement, error)
	FindByIngredient(ctx context.Context, ingredientID string) ([]*RecipeRequirement, error)
}

// MenuRepository persists menu items
type MenuRepository interface {
	Save(ctx context.Context, item *MenuItem) error
	Update(ctx context.Context, item *MenuItem) error
	FindByID(ctx context.Context, id string) (*MenuItem, error)
	FindAll(ctx context.Context) ([]*MenuItem, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists orders
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
}

// CartRepository persists session carts
type CartRepository interface {
	Save(ctx context.Context, cart *Cart) error
	FindBySession(ctx context.Context, sessionID string) (*Cart, error)
	Delete(ctx context.Context, id string) error
}

// TableRepository persists dining tables
type TableRepository interface {
	Save(ctx context.Context, table *Table) error
	Update(ctx context.Context, table *Table) error
	FindByID(ctx context.Context, id string) (*Table, error)
	FindAll(ctx context.Context) ([]*Table, error)
}

// ReservationRepository persists table reservations
type ReservationRepository interface {
	Save(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
	FindByID(ctx context.Context, id string) (*Reservation, error)
	FindAll(ctx context.Context) ([]*Reservation, error)
	FindByStatus(ctx context.Context, status ReservationStatus) ([]*Reservation, error)
	// FindApprovedInWindow returns approved reservations for a table
	// whose booking time falls inside (from, to). excludeID, when not
	// empty, skips one reservation so approval can re-check a window
	// without seeing itself.
	FindApprovedInWindow(ctx context.Context, tableID string, from, to time.Time, excludeID string) ([]*Reservation, error)
}

// Transactor runs a function inside a storage transaction. The MongoDB
// implementation binds a session to the derived context; test fakes
// simply call fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
