package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/locking"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
	"github.com/smartdine/restaurant-service/pkg/resilience"
)

// StockTransactionService is the only write path for order-driven
// stock movement. Every deduction is two-phase: with all touched
// ingredients locked in ascending ID order, phase one validates every
// requirement and phase two commits the decrements plus one Used
// ledger entry per ingredient in a single storage transaction. A
// failed validation writes nothing.
type StockTransactionService struct {
	ingredients domain.IngredientRepository
	ledger      domain.LedgerRepository
	recipes     *RecipeApplicationService
	transactor  domain.Transactor
	locks       *locking.KeyedMutex
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      *logging.Logger
}

// NewStockTransactionService creates a new StockTransactionService
func NewStockTransactionService(
	ingredients domain.IngredientRepository,
	ledger domain.LedgerRepository,
	recipes *RecipeApplicationService,
	transactor domain.Transactor,
	locks *locking.KeyedMutex,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *StockTransactionService {
	return &StockTransactionService{
		ingredients: ingredients,
		ledger:      ledger,
		recipes:     recipes,
		transactor:  transactor,
		locks:       locks,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
	}
}

func (s *StockTransactionService) retryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryableErrors = errors.IsRetryable
	return cfg
}

// Deduct removes the stock needed for servings of a menu item
func (s *StockTransactionService) Deduct(ctx context.Context, cmd DeductCommand) ([]*IngredientDTO, error) {
	if cmd.Servings <= 0 {
		return nil, errors.ErrValidation("servings must be positive")
	}

	required, err := s.recipes.RequirementsFor(ctx, cmd.MenuItemID, cmd.Servings)
	if err != nil {
		return nil, err
	}

	note := cmd.Note
	if note == "" {
		note = fmt.Sprintf("Used for menu item %s", cmd.MenuItemID)
	}

	updated, err := s.DeductRequirements(ctx, required, note)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockDeduction(cmd.MenuItemID)
	}
	return updated, nil
}

// DeductRequirements atomically removes a merged requirement set. The
// whole set commits or none of it does; the returned error names the
// first insufficient ingredient in ascending ID order. An empty set
// succeeds trivially with no ledger entries.
func (s *StockTransactionService) DeductRequirements(ctx context.Context, required domain.RequirementSet, note string) ([]*IngredientDTO, error) {
	if len(required) == 0 {
		return []*IngredientDTO{}, nil
	}

	ids := required.IngredientIDs()

	var updated []*domain.Ingredient
	err := resilience.Retry(ctx, s.retryConfig(), func() error {
		unlock := s.locks.LockAll(ids)
		defer unlock()

		return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			stock, err := s.loadAll(txCtx, ids)
			if err != nil {
				return err
			}

			// Phase one: validate everything before touching anything.
			for _, id := range ids {
				ing := stock[id]
				needed := required[id]
				if !ing.CanCover(needed) {
					if s.metrics != nil {
						s.metrics.RecordInsufficientStock(ing.Name)
					}
					return errors.ErrInsufficientStock(ing.Name, needed, ing.Quantity)
				}
			}

			// Phase two: commit decrements and ledger entries together.
			entries := make([]*domain.StockLedgerEntry, 0, len(ids))
			updated = updated[:0]
			for _, id := range ids {
				ing := stock[id]
				previous := ing.Quantity
				if err := ing.Deduct(required[id]); err != nil {
					return err
				}

				entry, err := domain.NewLedgerEntry(uuid.New().String(), ing, domain.ActionUsed, previous, ing.Quantity, note)
				if err != nil {
					return err
				}
				entries = append(entries, entry)

				if err := s.ingredients.Update(txCtx, ing); err != nil {
					return fmt.Errorf("failed to update ingredient %s: %w", ing.ID, err)
				}
				updated = append(updated, ing)
			}

			return s.ledger.Append(txCtx, entries...)
		})
	})
	if err != nil {
		s.logger.Warn("Stock deduction failed", "ingredients", ids, "error", err)
		return nil, err
	}

	s.publishEvents(ctx, updated)
	s.logger.Info("Deducted stock", "ingredients", ids, "note", note)
	return ToIngredientDTOs(updated), nil
}

// Restore returns the stock consumed by servings of a menu item
func (s *StockTransactionService) Restore(ctx context.Context, cmd RestoreCommand) ([]*IngredientDTO, error) {
	if cmd.Servings <= 0 {
		return nil, errors.ErrValidation("servings must be positive")
	}

	required, err := s.recipes.RequirementsFor(ctx, cmd.MenuItemID, cmd.Servings)
	if err != nil {
		return nil, err
	}

	note := cmd.Note
	if note == "" {
		note = fmt.Sprintf("Restored for menu item %s", cmd.MenuItemID)
	}

	updated, err := s.RestoreRequirements(ctx, required, note)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockRestoration(cmd.MenuItemID)
	}
	return updated, nil
}

// RestoreRequirements atomically returns a merged requirement set to
// stock, writing one Added ledger entry per ingredient. An empty set
// succeeds trivially with no ledger entries.
func (s *StockTransactionService) RestoreRequirements(ctx context.Context, required domain.RequirementSet, note string) ([]*IngredientDTO, error) {
	if len(required) == 0 {
		return []*IngredientDTO{}, nil
	}

	ids := required.IngredientIDs()

	var updated []*domain.Ingredient
	err := resilience.Retry(ctx, s.retryConfig(), func() error {
		unlock := s.locks.LockAll(ids)
		defer unlock()

		return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			stock, err := s.loadAll(txCtx, ids)
			if err != nil {
				return err
			}

			entries := make([]*domain.StockLedgerEntry, 0, len(ids))
			updated = updated[:0]
			for _, id := range ids {
				ing := stock[id]
				previous := ing.Quantity
				if err := ing.Refill(required[id]); err != nil {
					return err
				}

				entry, err := domain.NewLedgerEntry(uuid.New().String(), ing, domain.ActionAdded, previous, ing.Quantity, note)
				if err != nil {
					return err
				}
				entries = append(entries, entry)

				if err := s.ingredients.Update(txCtx, ing); err != nil {
					return fmt.Errorf("failed to update ingredient %s: %w", ing.ID, err)
				}
				updated = append(updated, ing)
			}

			return s.ledger.Append(txCtx, entries...)
		})
	})
	if err != nil {
		s.logger.Error("Stock restoration failed", "ingredients", ids, "error", err)
		return nil, err
	}

	s.publishEvents(ctx, updated)
	s.logger.Info("Restored stock", "ingredients", ids, "note", note)
	return ToIngredientDTOs(updated), nil
}

// RequirementsForLines merges the demand of every order line into one
// requirement set so a multi-line order commits or fails as a whole
func (s *StockTransactionService) RequirementsForLines(ctx context.Context, lines []domain.OrderLine) (domain.RequirementSet, error) {
	merged := domain.NewRequirementSet()
	for _, line := range lines {
		required, err := s.recipes.RequirementsFor(ctx, line.MenuItemID, float64(line.Quantity))
		if err != nil {
			return nil, err
		}
		merged.Merge(required)
	}
	return merged, nil
}

func (s *StockTransactionService) loadAll(ctx context.Context, ids []string) (map[string]*domain.Ingredient, error) {
	stock, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	byID := make(map[string]*domain.Ingredient, len(stock))
	for _, ing := range stock {
		byID[ing.ID] = ing
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, errors.ErrNotFoundWithID("ingredient", id)
		}
	}
	return byID, nil
}

func (s *StockTransactionService) publishEvents(ctx context.Context, ingredients []*domain.Ingredient) {
	for _, ing := range ingredients {
		events := ing.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		for _, ev := range events {
			if alert, ok := ev.(*domain.LowStockAlertEvent); ok && s.metrics != nil {
				s.metrics.RecordLowStockAlert(alert.Ingredient)
			}
		}
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish stock events", "id", ing.ID, "error", err)
		}
		ing.ClearDomainEvents()
	}
}
