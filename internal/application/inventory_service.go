package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
)

// InventoryApplicationService handles ingredient and ledger use cases.
// Manual corrections clamp negative targets to zero; only the order
// path in StockTransactionService refuses to commit on shortfall.
type InventoryApplicationService struct {
	ingredients domain.IngredientRepository
	ledger      domain.LedgerRepository
	recipes     domain.RecipeRepository
	transactor  domain.Transactor
	publisher   EventPublisher
	logger      *logging.Logger
}

// NewInventoryApplicationService creates a new InventoryApplicationService
func NewInventoryApplicationService(
	ingredients domain.IngredientRepository,
	ledger domain.LedgerRepository,
	recipes domain.RecipeRepository,
	transactor domain.Transactor,
	publisher EventPublisher,
	logger *logging.Logger,
) *InventoryApplicationService {
	return &InventoryApplicationService{
		ingredients: ingredients,
		ledger:      ledger,
		recipes:     recipes,
		transactor:  transactor,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateIngredient registers a new tracked ingredient. The opening
// quantity, when non-zero, is recorded as an Added ledger entry.
func (s *InventoryApplicationService) CreateIngredient(ctx context.Context, cmd CreateIngredientCommand) (*IngredientDTO, error) {
	existing, err := s.ingredients.FindByName(ctx, cmd.Name)
	if err != nil {
		s.logger.Error("Failed to check ingredient name", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to check ingredient name: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict(fmt.Sprintf("ingredient %q already exists", cmd.Name))
	}

	ingredient, err := domain.NewIngredient(uuid.New().String(), cmd.Name, domain.Unit(cmd.Unit), cmd.Quantity, cmd.ReorderLevel, cmd.ReorderQuantity, cmd.PricePerUnit)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ingredients.Save(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to save ingredient: %w", err)
		}
		if ingredient.Quantity > 0 {
			entry, err := domain.NewLedgerEntry(uuid.New().String(), ingredient, domain.ActionAdded, 0, ingredient.Quantity, "Initial stock")
			if err != nil {
				return err
			}
			return s.ledger.Append(txCtx, entry)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create ingredient", "name", cmd.Name, "error", err)
		return nil, err
	}

	s.logger.Info("Created ingredient", "id", ingredient.ID, "name", ingredient.Name)
	return ToIngredientDTO(ingredient), nil
}

// GetIngredient retrieves an ingredient by ID
func (s *InventoryApplicationService) GetIngredient(ctx context.Context, query GetIngredientQuery) (*IngredientDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, query.IngredientID)
	if err != nil {
		s.logger.Error("Failed to get ingredient", "id", query.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", query.IngredientID)
	}

	return ToIngredientDTO(ingredient), nil
}

// ListIngredients returns all tracked ingredients
func (s *InventoryApplicationService) ListIngredients(ctx context.Context) ([]*IngredientDTO, error) {
	items, err := s.ingredients.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list ingredients", "error", err)
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ToIngredientDTOs(items), nil
}

// ListLowStock returns ingredients currently below their reorder level
func (s *InventoryApplicationService) ListLowStock(ctx context.Context) ([]*IngredientDTO, error) {
	items, err := s.ingredients.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list ingredients", "error", err)
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	low := make([]*domain.Ingredient, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return ToIngredientDTOs(low), nil
}

// Adjust sets an ingredient's quantity to an absolute value, clamping
// negative targets to zero, and writes an Adjusted ledger entry.
func (s *InventoryApplicationService) Adjust(ctx context.Context, cmd AdjustStockCommand) (*IngredientDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, cmd.IngredientID)
	if err != nil {
		s.logger.Error("Failed to get ingredient", "id", cmd.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", cmd.IngredientID)
	}

	previous := ingredient.Quantity
	ingredient.AdjustTo(cmd.NewQuantity)

	entry, err := domain.NewLedgerEntry(uuid.New().String(), ingredient, domain.ActionAdjusted, previous, ingredient.Quantity, cmd.Note)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ingredients.Update(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		return s.ledger.Append(txCtx, entry)
	})
	if err != nil {
		s.logger.Error("Failed to adjust stock", "id", cmd.IngredientID, "error", err)
		return nil, err
	}

	s.publishEvents(ctx, ingredient)
	s.logger.Audit(ctx, "stock.adjust", "ingredient", ingredient.ID, map[string]any{
		"from": previous,
		"to":   ingredient.Quantity,
		"note": cmd.Note,
	})
	return ToIngredientDTO(ingredient), nil
}

// Refill adds stock and writes an Added ledger entry
func (s *InventoryApplicationService) Refill(ctx context.Context, cmd RefillStockCommand) (*IngredientDTO, error) {
	return s.addStock(ctx, cmd.IngredientID, cmd.Quantity, domain.ActionAdded, cmd.Note)
}

// Return adds stock back from a cancelled order and writes a Returned
// ledger entry
func (s *InventoryApplicationService) Return(ctx context.Context, cmd RefillStockCommand) (*IngredientDTO, error) {
	return s.addStock(ctx, cmd.IngredientID, cmd.Quantity, domain.ActionReturned, cmd.Note)
}

func (s *InventoryApplicationService) addStock(ctx context.Context, ingredientID string, quantity float64, action domain.StockAction, note string) (*IngredientDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		s.logger.Error("Failed to get ingredient", "id", ingredientID, "error", err)
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", ingredientID)
	}

	previous := ingredient.Quantity
	if err := ingredient.Refill(quantity); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	entry, err := domain.NewLedgerEntry(uuid.New().String(), ingredient, action, previous, ingredient.Quantity, note)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ingredients.Update(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		return s.ledger.Append(txCtx, entry)
	})
	if err != nil {
		s.logger.Error("Failed to add stock", "id", ingredientID, "error", err)
		return nil, err
	}

	s.publishEvents(ctx, ingredient)
	s.logger.Info("Added stock", "id", ingredient.ID, "action", string(action), "quantity", quantity)
	return ToIngredientDTO(ingredient), nil
}

// RecordDamage removes spoiled or damaged stock and writes a Damaged
// ledger entry. Removing more than is on hand fails.
func (s *InventoryApplicationService) RecordDamage(ctx context.Context, cmd RecordDamageCommand) (*IngredientDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, cmd.IngredientID)
	if err != nil {
		s.logger.Error("Failed to get ingredient", "id", cmd.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", cmd.IngredientID)
	}

	previous := ingredient.Quantity
	if err := ingredient.Deduct(cmd.Quantity); err != nil {
		if ise, ok := domain.AsInsufficientStock(err); ok {
			return nil, errors.ErrInsufficientStock(ise.Ingredient, ise.Needed, ise.Available)
		}
		return nil, errors.ErrValidation(err.Error())
	}

	entry, err := domain.NewLedgerEntry(uuid.New().String(), ingredient, domain.ActionDamaged, previous, ingredient.Quantity, cmd.Note)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ingredients.Update(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		return s.ledger.Append(txCtx, entry)
	})
	if err != nil {
		s.logger.Error("Failed to record damage", "id", cmd.IngredientID, "error", err)
		return nil, err
	}

	s.publishEvents(ctx, ingredient)
	s.logger.Audit(ctx, "stock.damage", "ingredient", ingredient.ID, map[string]any{
		"quantity": cmd.Quantity,
		"note":     cmd.Note,
	})
	return ToIngredientDTO(ingredient), nil
}

// RestockToReorderLevel tops a low ingredient back up to its reorder
// quantity. Ingredients already at or above that level are left
// unchanged.
func (s *InventoryApplicationService) RestockToReorderLevel(ctx context.Context, cmd RestockCommand) (*IngredientDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, cmd.IngredientID)
	if err != nil {
		s.logger.Error("Failed to get ingredient", "id", cmd.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", cmd.IngredientID)
	}

	previous := ingredient.Quantity
	delta := ingredient.RestockToReorderQuantity()
	if delta == 0 {
		return ToIngredientDTO(ingredient), nil
	}

	entry, err := domain.NewLedgerEntry(uuid.New().String(), ingredient, domain.ActionAdded, previous, ingredient.Quantity, "Refilled to reorder quantity")
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ingredients.Update(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		return s.ledger.Append(txCtx, entry)
	})
	if err != nil {
		s.logger.Error("Failed to restock ingredient", "id", cmd.IngredientID, "error", err)
		return nil, err
	}

	s.logger.Info("Restocked to reorder level", "id", ingredient.ID, "added", delta)
	return ToIngredientDTO(ingredient), nil
}

// History returns the ledger entries for one ingredient, newest first
func (s *InventoryApplicationService) History(ctx context.Context, query LedgerHistoryQuery) ([]*LedgerEntryDTO, error) {
	ingredient, err := s.ingredients.FindByID(ctx, query.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, errors.ErrNotFoundWithID("ingredient", query.IngredientID)
	}

	entries, err := s.ledger.FindByIngredient(ctx, query.IngredientID, query.Limit)
	if err != nil {
		s.logger.Error("Failed to load ledger history", "id", query.IngredientID, "error", err)
		return nil, fmt.Errorf("failed to load ledger history: %w", err)
	}
	return ToLedgerEntryDTOs(entries), nil
}

// FullLedger returns recent ledger entries across all ingredients
func (s *InventoryApplicationService) FullLedger(ctx context.Context, limit int64) ([]*LedgerEntryDTO, error) {
	entries, err := s.ledger.FindAll(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load ledger", "error", err)
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return ToLedgerEntryDTOs(entries), nil
}

// DeleteIngredient removes an ingredient from tracking
func (s *InventoryApplicationService) DeleteIngredient(ctx context.Context, id string) error {
	ingredient, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ingredient == nil {
		return errors.ErrNotFoundWithID("ingredient", id)
	}

	// Recipes referencing the ingredient keep it alive.
	references, err := s.recipes.FindByIngredient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check recipe references: %w", err)
	}
	if len(references) > 0 {
		return errors.ErrConflict(fmt.Sprintf("ingredient %q is used by %d recipe(s)", ingredient.Name, len(references)))
	}

	if err := s.ingredients.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete ingredient", "id", id, "error", err)
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	s.logger.Info("Deleted ingredient", "id", id)
	return nil
}

func (s *InventoryApplicationService) publishEvents(ctx context.Context, ingredient *domain.Ingredient) {
	events := ingredient.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", "id", ingredient.ID, "error", err)
	}
	ingredient.ClearDomainEvents()
}
