package application

import "time"

// IngredientDTO is the API representation of an ingredient
type IngredientDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Unit            string    `json:"unit"`
	Quantity        float64   `json:"quantity"`
	ReorderLevel    float64   `json:"reorderLevel"`
	ReorderQuantity float64   `json:"reorderQuantity"`
	PricePerUnit    float64   `json:"pricePerUnit"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// LedgerEntryDTO is the API representation of a ledger entry
type LedgerEntryDTO struct {
	ID               string    `json:"id"`
	IngredientID     string    `json:"ingredientId"`
	IngredientName   string    `json:"ingredientName"`
	Action           string    `json:"action"`
	QuantityChanged  float64   `json:"quantityChanged"`
	PreviousQuantity float64   `json:"previousQuantity"`
	NewQuantity      float64   `json:"newQuantity"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RequirementDTO is one recipe graph edge
type RequirementDTO struct {
	MenuItemID   string  `json:"menuItemId"`
	IngredientID string  `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// MenuItemDTO is the API representation of a menu item
type MenuItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
}

// MissingIngredientDTO names one shortfall blocking a menu item
type MissingIngredientDTO struct {
	IngredientID string  `json:"ingredientId"`
	Ingredient   string  `json:"ingredient"`
	Needed       float64 `json:"needed"`
	Available    float64 `json:"available"`
	Shortage     float64 `json:"shortage"`
}

// AvailabilityDTO reports whether a menu item can currently be made
type AvailabilityDTO struct {
	MenuItemID string                 `json:"menuItemId"`
	Servings   float64                `json:"servings"`
	Available  bool                   `json:"available"`
	Missing    []MissingIngredientDTO `json:"missing,omitempty"`
}

// MenuAvailabilityDTO is the availability of one item on the full menu
type MenuAvailabilityDTO struct {
	MenuItem  MenuItemDTO `json:"menuItem"`
	Available bool        `json:"available"`
}

// OrderLineDTO is one line of an order
type OrderLineDTO struct {
	MenuItemID   string  `json:"menuItemId"`
	MenuItemName string  `json:"menuItemName"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Instructions string  `json:"instructions,omitempty"`
}

// OrderDTO is the API representation of an order
type OrderDTO struct {
	ID            string         `json:"id"`
	CustomerName  string         `json:"customerName,omitempty"`
	Type          string         `json:"type"`
	TableID       string         `json:"tableId,omitempty"`
	PaymentMethod string         `json:"paymentMethod"`
	Status        string         `json:"status"`
	Lines         []OrderLineDTO `json:"lines"`
	Total         float64        `json:"total"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
}

// CartDTO is the API representation of a session cart
type CartDTO struct {
	SessionID string         `json:"sessionId"`
	Lines     []OrderLineDTO `json:"lines"`
	Total     float64        `json:"total"`
}

// TableDTO is the API representation of a table
type TableDTO struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// ReservationDTO is the API representation of a reservation
type ReservationDTO struct {
	ID            string    `json:"id"`
	TableID       string    `json:"tableId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	PartySize     int       `json:"partySize"`
	BookingTime   time.Time `json:"bookingTime"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
