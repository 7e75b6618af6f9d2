package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
)

func TestDeduct_SingleMenuItem(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	updated, err := env.stock.Deduct(ctx, DeductCommand{MenuItemID: pizzaID, Servings: 2})

	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 600.0, env.ingredients.quantity(flourID))
	assert.Equal(t, 300.0, env.ingredients.quantity(cheeseID))

	used := env.ledger.byAction(domain.ActionUsed)
	require.Len(t, used, 2)
	for _, entry := range used {
		assert.True(t, entry.Consistent())
		assert.Negative(t, entry.QuantityChanged)
	}
}

func TestDeduct_RejectsNonPositiveServings(t *testing.T) {
	env := newTestEnv()
	flourID, _, _, pastaID := env.seedPizzeria()
	ctx := context.Background()

	for _, servings := range []float64{0, -1} {
		_, err := env.stock.Deduct(ctx, DeductCommand{MenuItemID: pastaID, Servings: servings})

		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	}

	assert.Equal(t, 1000.0, env.ingredients.quantity(flourID))
	assert.Empty(t, env.ledger.entries)
}

func TestRestore_RejectsNonPositiveServings(t *testing.T) {
	env := newTestEnv()
	_, _, _, pastaID := env.seedPizzeria()

	_, err := env.stock.Restore(context.Background(), RestoreCommand{MenuItemID: pastaID})

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}

func TestDeduct_InsufficientStockNamesIngredient(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	flour, _ := env.ingredients.FindByID(ctx, flourID)
	flour.Quantity = 50
	require.NoError(t, env.ingredients.Update(ctx, flour))

	_, err := env.stock.Deduct(ctx, DeductCommand{MenuItemID: pizzaID, Servings: 1})

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "Flour", appErr.Details["ingredient"])
	assert.Equal(t, "200", appErr.Details["needed"])
	assert.Equal(t, "50", appErr.Details["available"])

	// Nothing was written, cheese included.
	assert.Equal(t, 50.0, env.ingredients.quantity(flourID))
	assert.Equal(t, 500.0, env.ingredients.quantity(cheeseID))
	assert.Empty(t, env.ledger.byAction(domain.ActionUsed))
}

func TestDeduct_MenuItemWithoutRecipeSucceedsTrivially(t *testing.T) {
	env := newTestEnv()
	env.seedPizzeria()
	ctx := context.Background()

	item, _ := domain.NewMenuItem("menu-salad", "Salad", "", "starters", 6)
	require.NoError(t, env.menu.Save(ctx, item))

	updated, err := env.stock.Deduct(ctx, DeductCommand{MenuItemID: item.ID, Servings: 1})

	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Empty(t, env.ledger.entries)
}

func TestDeductRequirements_MergedSetIsAtomic(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, _, _ := env.seedPizzeria()
	ctx := context.Background()

	// 2 pizzas and 3 pastas merged: 700 flour, 200 cheese.
	required := domain.NewRequirementSet()
	required.Add(flourID, 2*200+3*100)
	required.Add(cheeseID, 2*100)

	updated, err := env.stock.DeductRequirements(ctx, required, "Used for order #o-1")

	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 300.0, env.ingredients.quantity(flourID))
	assert.Equal(t, 300.0, env.ingredients.quantity(cheeseID))

	used := env.ledger.byAction(domain.ActionUsed)
	require.Len(t, used, 2)
	assert.Equal(t, "Used for order #o-1", used[0].Note)
}

func TestDeductRequirements_EmptySetWritesNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	updated, err := env.stock.DeductRequirements(ctx, domain.NewRequirementSet(), "")

	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Empty(t, env.ledger.entries)
}

func TestDeductRequirements_FirstShortfallInAscendingIDOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Both ingredients are short; the error must name the one with the
	// lower ID.
	a, _ := domain.NewIngredient("ing-a", "Basil", domain.UnitGram, 10, 5, 20, 0)
	b, _ := domain.NewIngredient("ing-b", "Oregano", domain.UnitGram, 10, 5, 20, 0)
	require.NoError(t, env.ingredients.Save(ctx, a))
	require.NoError(t, env.ingredients.Save(ctx, b))

	required := domain.NewRequirementSet()
	required.Add("ing-b", 50)
	required.Add("ing-a", 50)

	_, err := env.stock.DeductRequirements(ctx, required, "")

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Basil", appErr.Details["ingredient"])
}

func TestDeductRequirements_ConcurrentDeductionsNeverOversell(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 1000 grams covers exactly 5 deductions of 200.
	flour, _ := domain.NewIngredient("ing-flour", "Flour", domain.UnitGram, 1000, 100, 1500, 0)
	require.NoError(t, env.ingredients.Save(ctx, flour))

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			required := domain.NewRequirementSet()
			required.Add("ing-flour", 200)
			if _, err := env.stock.DeductRequirements(ctx, required, "load test"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0.0, env.ingredients.quantity("ing-flour"))
	assert.Len(t, env.ledger.byAction(domain.ActionUsed), 5)
}

func TestRestore_ReturnsQuantities(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	_, err := env.stock.Deduct(ctx, DeductCommand{MenuItemID: pizzaID, Servings: 2})
	require.NoError(t, err)

	_, err = env.stock.Restore(ctx, RestoreCommand{MenuItemID: pizzaID, Servings: 2})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, env.ingredients.quantity(flourID))
	assert.Equal(t, 500.0, env.ingredients.quantity(cheeseID))

	// restorations land as Added; Returned is reserved for manual
	// supplier returns
	restored := env.ledger.byAction(domain.ActionAdded)
	require.Len(t, restored, 2)
	for _, entry := range restored {
		assert.True(t, entry.Consistent())
		assert.Positive(t, entry.QuantityChanged)
	}
	assert.Empty(t, env.ledger.byAction(domain.ActionReturned))
}

func TestDeduct_LowStockAlertPublished(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 600 on hand, reorder at 500; a 200 gram deduction crosses it.
	flour, _ := domain.NewIngredient("ing-flour", "Flour", domain.UnitGram, 600, 500, 1500, 0)
	require.NoError(t, env.ingredients.Save(ctx, flour))

	required := domain.NewRequirementSet()
	required.Add("ing-flour", 200)
	_, err := env.stock.DeductRequirements(ctx, required, "")
	require.NoError(t, err)

	alerts := env.publisher.byType("stock.low_alert")
	require.Len(t, alerts, 1)
	deducted := env.publisher.byType("stock.deducted")
	require.Len(t, deducted, 1)
}

func TestRequirementsForLines_MergesAcrossLines(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, pastaID := env.seedPizzeria()
	ctx := context.Background()

	lines := []domain.OrderLine{
		{MenuItemID: pizzaID, MenuItemName: "Pizza", Quantity: 2, UnitPrice: 12.5},
		{MenuItemID: pastaID, MenuItemName: "Pasta", Quantity: 3, UnitPrice: 9},
	}

	required, err := env.stock.RequirementsForLines(ctx, lines)

	require.NoError(t, err)
	assert.Equal(t, 700.0, required[flourID])
	assert.Equal(t, 200.0, required[cheeseID])
	assert.Equal(t, []string{cheeseID, flourID}, required.IngredientIDs())
}
