package application

import "time"

// Ingredient commands and queries

type CreateIngredientCommand struct {
	Name            string  `json:"name" binding:"required"`
	Unit            string  `json:"unit" binding:"required"`
	Quantity        float64 `json:"quantity"`
	ReorderLevel    float64 `json:"reorderLevel"`
	ReorderQuantity float64 `json:"reorderQuantity"`
	PricePerUnit    float64 `json:"pricePerUnit"`
}

type AdjustStockCommand struct {
	IngredientID string  `json:"-"`
	NewQuantity  float64 `json:"newQuantity"`
	Note         string  `json:"note"`
}

type RefillStockCommand struct {
	IngredientID string  `json:"-"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Note         string  `json:"note"`
}

type RecordDamageCommand struct {
	IngredientID string  `json:"-"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Note         string  `json:"note"`
}

type RestockCommand struct {
	IngredientID string `json:"-"`
}

type GetIngredientQuery struct {
	IngredientID string
}

type LedgerHistoryQuery struct {
	IngredientID string
	Limit        int64
}

// Recipe commands and queries

type UpsertRequirementCommand struct {
	MenuItemID   string  `json:"-"`
	IngredientID string  `json:"ingredientId" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
}

type RemoveRequirementCommand struct {
	MenuItemID   string
	IngredientID string
}

type GetRecipeQuery struct {
	MenuItemID string
}

// Menu commands

type CreateMenuItemCommand struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// Availability queries

type AvailabilityQuery struct {
	MenuItemID string
	Servings   float64
}

// Stock transaction commands

type DeductCommand struct {
	MenuItemID string  `json:"menuItemId" binding:"required"`
	Servings   float64 `json:"servings"`
	Note       string  `json:"note"`
}

type RestoreCommand struct {
	MenuItemID string  `json:"menuItemId" binding:"required"`
	Servings   float64 `json:"servings"`
	Note       string  `json:"note"`
}

// Order commands

type OrderLineInput struct {
	MenuItemID   string `json:"menuItemId" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	Instructions string `json:"instructions"`
}

type PlaceOrderCommand struct {
	CustomerName  string           `json:"customerName"`
	Type          string           `json:"type" binding:"required"`
	TableID       string           `json:"tableId"`
	PaymentMethod string           `json:"paymentMethod"`
	Lines         []OrderLineInput `json:"lines" binding:"required"`
}

type UpdateOrderStatusCommand struct {
	OrderID string `json:"-"`
	Status  string `json:"status" binding:"required"`
}

// Cart commands

type AddCartItemCommand struct {
	SessionID  string `json:"-"`
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

type UpdateCartItemCommand struct {
	SessionID  string `json:"-"`
	MenuItemID string `json:"-"`
	Quantity   int    `json:"quantity"`
}

type CheckoutCommand struct {
	SessionID     string `json:"-"`
	CustomerName  string `json:"customerName"`
	Type          string `json:"type" binding:"required"`
	TableID       string `json:"tableId"`
	PaymentMethod string `json:"paymentMethod"`
}

// Table and reservation commands

type CreateTableCommand struct {
	Number   int `json:"number" binding:"required"`
	Capacity int `json:"capacity" binding:"required"`
}

type RequestReservationCommand struct {
	TableID       string    `json:"tableId"`
	CustomerName  string    `json:"customerName" binding:"required"`
	CustomerPhone string    `json:"customerPhone"`
	PartySize     int       `json:"partySize" binding:"required"`
	BookingTime   time.Time `json:"bookingTime" binding:"required"`
}

type ApproveReservationCommand struct {
	ReservationID string
}

type RejectReservationCommand struct {
	ReservationID string
	Note          string `json:"note"`
}
