package application

import (
	"context"
	"fmt"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
)

// AvailabilityService answers read-only "can we make this" questions
// against current stock. Answers are advisory: nothing is locked, so a
// concurrent deduction can invalidate them. The commit path revalidates
// under locks.
type AvailabilityService struct {
	recipes     *RecipeApplicationService
	ingredients domain.IngredientRepository
	logger      *logging.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	recipes *RecipeApplicationService,
	ingredients domain.IngredientRepository,
	logger *logging.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		recipes:     recipes,
		ingredients: ingredients,
		logger:      logger,
	}
}

// missingFor computes all shortfalls for a requirement set, in
// ascending ingredient ID order
func (s *AvailabilityService) missingFor(ctx context.Context, required domain.RequirementSet) ([]MissingIngredientDTO, error) {
	ids := required.IngredientIDs()
	stock, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	byID := make(map[string]*domain.Ingredient, len(stock))
	for _, ing := range stock {
		byID[ing.ID] = ing
	}

	missing := make([]MissingIngredientDTO, 0)
	for _, id := range ids {
		needed := required[id]
		ing, ok := byID[id]
		if !ok {
			return nil, errors.ErrNotFoundWithID("ingredient", id)
		}
		if !ing.CanCover(needed) {
			missing = append(missing, MissingIngredientDTO{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Needed:       needed,
				Available:    ing.Quantity,
				Shortage:     needed - ing.Quantity,
			})
		}
	}
	return missing, nil
}

// CheckAvailability reports whether servings of a menu item can be
// made, naming every insufficient ingredient. A menu item with no
// recipe requirements is always available.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, query AvailabilityQuery) (*AvailabilityDTO, error) {
	servings := query.Servings
	if servings == 0 {
		servings = 1
	}

	if _, err := s.recipes.GetMenuItem(ctx, query.MenuItemID); err != nil {
		return nil, err
	}

	required, err := s.recipes.RequirementsFor(ctx, query.MenuItemID, servings)
	if err != nil {
		return nil, err
	}

	missing, err := s.missingFor(ctx, required)
	if err != nil {
		return nil, err
	}

	return &AvailabilityDTO{
		MenuItemID: query.MenuItemID,
		Servings:   servings,
		Available:  len(missing) == 0,
		Missing:    missing,
	}, nil
}

// IsAvailable reports whether a single serving of a menu item can be
// made right now
func (s *AvailabilityService) IsAvailable(ctx context.Context, menuItemID string) (bool, error) {
	result, err := s.CheckAvailability(ctx, AvailabilityQuery{MenuItemID: menuItemID, Servings: 1})
	if err != nil {
		return false, err
	}
	return result.Available, nil
}

// MenuAvailability evaluates one serving of every menu item
func (s *AvailabilityService) MenuAvailability(ctx context.Context) ([]*MenuAvailabilityDTO, error) {
	items, err := s.recipes.ListMenu(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*MenuAvailabilityDTO, 0, len(items))
	for _, item := range items {
		result, err := s.CheckAvailability(ctx, AvailabilityQuery{MenuItemID: item.ID, Servings: 1})
		if err != nil {
			return nil, err
		}

		results = append(results, &MenuAvailabilityDTO{
			MenuItem:  *item,
			Available: result.Available,
		})
	}
	return results, nil
}
