package domain

import (
	"strings"
	"time"
)

// MenuItem is a sellable dish. Availability is never stored; it is
// always derived from current stock through the recipe graph.
type MenuItem struct {
	ID          string  `bson:"_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Category    string  `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64 `bson:"price" json:"price"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewMenuItem creates a new menu item
func NewMenuItem(id, name, description, category string, price float64) (*MenuItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if price < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &MenuItem{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
