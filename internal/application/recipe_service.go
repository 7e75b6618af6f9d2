package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
)

// RecipeApplicationService maintains the recipe graph linking menu
// items to the ingredients they consume
type RecipeApplicationService struct {
	recipes     domain.RecipeRepository
	menu        domain.MenuRepository
	ingredients domain.IngredientRepository
	logger      *logging.Logger
}

// NewRecipeApplicationService creates a new RecipeApplicationService
func NewRecipeApplicationService(
	recipes domain.RecipeRepository,
	menu domain.MenuRepository,
	ingredients domain.IngredientRepository,
	logger *logging.Logger,
) *RecipeApplicationService {
	return &RecipeApplicationService{
		recipes:     recipes,
		menu:        menu,
		ingredients: ingredients,
		logger:      logger,
	}
}

// UpsertRequirement creates or replaces the quantity one menu item
// needs of one ingredient
func (s *RecipeApplicationService) UpsertRequirement(ctx context.Context, cmd UpsertRequirementCommand) (*RequirementDTO, error) {
	item, err := s.menu.FindByID(ctx, cmd.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("menu item", cmd.MenuItemID)
	}

	ingredient, err := s.ingredients.FindByID(ctx, cmd.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", cmd.IngredientID)
	}

	requirement, err := domain.NewRecipeRequirement(uuid.New().String(), cmd.MenuItemID, cmd.IngredientID, cmd.Quantity)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.recipes.Upsert(ctx, requirement); err != nil {
		s.logger.Error("Failed to upsert requirement", "menuItemId", cmd.MenuItemID, "ingredientId", cmd.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to upsert requirement: %w", err)
	}

	s.logger.Info("Upserted recipe requirement",
		"menuItemId", cmd.MenuItemID,
		"ingredientId", cmd.IngredientID,
		"quantity", cmd.Quantity,
	)
	return ToRequirementDTO(requirement), nil
}

// RemoveRequirement deletes one edge from the recipe graph
func (s *RecipeApplicationService) RemoveRequirement(ctx context.Context, cmd RemoveRequirementCommand) error {
	if err := s.recipes.Remove(ctx, cmd.MenuItemID, cmd.IngredientID); err != nil {
		s.logger.Error("Failed to remove requirement", "menuItemId", cmd.MenuItemID, "ingredientId", cmd.IngredientID, "error", err)
		return err
	}
	s.logger.Info("Removed recipe requirement", "menuItemId", cmd.MenuItemID, "ingredientId", cmd.IngredientID)
	return nil
}

// GetRecipe returns the requirements of a menu item ordered by
// ingredient ID
func (s *RecipeApplicationService) GetRecipe(ctx context.Context, query GetRecipeQuery) ([]*RequirementDTO, error) {
	item, err := s.menu.FindByID(ctx, query.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("menu item", query.MenuItemID)
	}

	rows, err := s.recipes.FindByMenuItem(ctx, query.MenuItemID)
	if err != nil {
		s.logger.Error("Failed to load recipe", "menuItemId", query.MenuItemID, "error", err)
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return ToRequirementDTOs(rows), nil
}

// RequirementsFor resolves the merged demand of servings units of a
// menu item. A menu item with no recipe rows has no demand: the empty
// set comes back and downstream paths succeed trivially. Servings
// below or equal to zero are invalid.
func (s *RecipeApplicationService) RequirementsFor(ctx context.Context, menuItemID string, servings float64) (domain.RequirementSet, error) {
	if servings <= 0 {
		return nil, errors.ErrValidation("servings must be positive")
	}

	rows, err := s.recipes.FindByMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	return domain.MergeRequirements(rows, servings), nil
}

// CreateMenuItem registers a new menu item
func (s *RecipeApplicationService) CreateMenuItem(ctx context.Context, cmd CreateMenuItemCommand) (*MenuItemDTO, error) {
	item, err := domain.NewMenuItem(uuid.New().String(), cmd.Name, cmd.Description, cmd.Category, cmd.Price)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.menu.Save(ctx, item); err != nil {
		s.logger.Error("Failed to create menu item", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info("Created menu item", "id", item.ID, "name", item.Name)
	return ToMenuItemDTO(item), nil
}

// DeleteMenuItem removes a menu item together with its recipe rows
func (s *RecipeApplicationService) DeleteMenuItem(ctx context.Context, id string) error {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return errors.ErrNotFoundWithID("menu item", id)
	}

	rows, err := s.recipes.FindByMenuItem(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	for _, row := range rows {
		if err := s.recipes.Remove(ctx, id, row.IngredientID); err != nil {
			s.logger.Error("Failed to remove requirement", "menuItemId", id, "ingredientId", row.IngredientID, "error", err)
			return fmt.Errorf("failed to remove requirement: %w", err)
		}
	}

	if err := s.menu.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete menu item", "id", id, "error", err)
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.logger.Info("Deleted menu item", "id", id, "name", item.Name, "requirements", len(rows))
	return nil
}

// ListMenu returns all menu items
func (s *RecipeApplicationService) ListMenu(ctx context.Context) ([]*MenuItemDTO, error) {
	items, err := s.menu.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}

	dtos := make([]*MenuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToMenuItemDTO(item))
	}
	return dtos, nil
}

// GetMenuItem retrieves one menu item
func (s *RecipeApplicationService) GetMenuItem(ctx context.Context, id string) (*MenuItemDTO, error) {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("menu item", id)
	}
	return ToMenuItemDTO(item), nil
}
