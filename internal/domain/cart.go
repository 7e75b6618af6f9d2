package domain

import "time"

// CartLine is one menu item position in a cart
type CartLine struct {
	MenuItemID   string  `bson:"menuItemId" json:"menuItemId"`
	MenuItemName string  `bson:"menuItemName" json:"menuItemName"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	UnitPrice    float64 `bson:"unitPrice" json:"unitPrice"`
}

// Cart accumulates menu items for one browser session before checkout.
// No stock is reserved while items sit in a cart; availability is only
// enforced at checkout.
type Cart struct {
	ID        string     `bson:"_id" json:"id"`
	SessionID string     `bson:"sessionId" json:"sessionId"`
	Lines     []CartLine `bson:"lines" json:"lines"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewCart creates an empty cart for a session
func NewCart(id, sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		ID:        id,
		SessionID: sessionID,
		Lines:     make([]CartLine, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds quantity of a menu item, merging with an existing line
func (c *Cart) AddItem(menuItemID, menuItemName string, quantity int, unitPrice float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for idx := range c.Lines {
		if c.Lines[idx].MenuItemID == menuItemID {
			c.Lines[idx].Quantity += quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	c.Lines = append(c.Lines, CartLine{
		MenuItemID:   menuItemID,
		MenuItemName: menuItemName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
	})
	c.UpdatedAt = time.Now()
	return nil
}

// UpdateItem sets the quantity of an existing line; zero removes it
func (c *Cart) UpdateItem(menuItemID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	for idx := range c.Lines {
		if c.Lines[idx].MenuItemID == menuItemID {
			if quantity == 0 {
				c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
			} else {
				c.Lines[idx].Quantity = quantity
			}
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrMenuItemNotFound
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(menuItemID string) error {
	return c.UpdateItem(menuItemID, 0)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = make([]CartLine, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total returns the cart total
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}
