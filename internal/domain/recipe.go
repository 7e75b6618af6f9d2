package domain

import (
	"sort"
	"time"
)

// RecipeRequirement links a menu item to one ingredient it consumes.
// Quantity is the amount of the ingredient needed for a single unit of
// the menu item, in the ingredient's own unit.
type RecipeRequirement struct {
	ID           string  `bson:"_id" json:"id"`
	MenuItemID   string  `bson:"menuItemId" json:"menuItemId"`
	IngredientID string  `bson:"ingredientId" json:"ingredientId"`
	Quantity     float64 `bson:"quantity" json:"quantity"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewRecipeRequirement creates a requirement edge in the recipe graph.
// A zero quantity is a valid edge that contributes no demand.
func NewRecipeRequirement(id, menuItemID, ingredientID string, quantity float64) (*RecipeRequirement, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &RecipeRequirement{
		ID:           id,
		MenuItemID:   menuItemID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RequirementSet is the merged ingredient demand of one or more menu
// item servings, keyed by ingredient ID.
type RequirementSet map[string]float64

// NewRequirementSet creates an empty requirement set
func NewRequirementSet() RequirementSet {
	return make(RequirementSet)
}

// Add accumulates demand for an ingredient. Zero demand is dropped so
// the set only ever carries ingredients that actually need stock.
func (s RequirementSet) Add(ingredientID string, quantity float64) {
	if quantity == 0 {
		return
	}
	s[ingredientID] += quantity
}

// Merge folds another set into this one
func (s RequirementSet) Merge(other RequirementSet) {
	for id, qty := range other {
		s[id] += qty
	}
}

// IngredientIDs returns the ingredient IDs in ascending order. Both
// lock acquisition and validation walk requirements in this order so
// failures are reported deterministically.
func (s RequirementSet) IngredientIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scale returns a new set with every quantity multiplied by servings
func (s RequirementSet) Scale(servings float64) RequirementSet {
	scaled := make(RequirementSet, len(s))
	for id, qty := range s {
		scaled[id] = qty * servings
	}
	return scaled
}

// MergeRequirements flattens recipe rows into a requirement set scaled
// by the number of servings
func MergeRequirements(rows []*RecipeRequirement, servings float64) RequirementSet {
	set := NewRequirementSet()
	for _, row := range rows {
		set.Add(row.IngredientID, row.Quantity*servings)
	}
	return set
}
