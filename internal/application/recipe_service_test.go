package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdine/restaurant-service/pkg/errors"
)

func TestUpsertRequirement_ValidatesReferences(t *testing.T) {
	env := newTestEnv()
	flourID, _, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	_, err := env.recipes.UpsertRequirement(ctx, UpsertRequirementCommand{
		MenuItemID: "menu-ghost", IngredientID: flourID, Quantity: 100,
	})
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)

	_, err = env.recipes.UpsertRequirement(ctx, UpsertRequirementCommand{
		MenuItemID: pizzaID, IngredientID: "ing-ghost", Quantity: 100,
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

func TestUpsertRequirement_ReplacesQuantity(t *testing.T) {
	env := newTestEnv()
	flourID, _, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	_, err := env.recipes.UpsertRequirement(ctx, UpsertRequirementCommand{
		MenuItemID: pizzaID, IngredientID: flourID, Quantity: 250,
	})
	require.NoError(t, err)

	required, err := env.recipes.RequirementsFor(ctx, pizzaID, 1)
	require.NoError(t, err)
	assert.Equal(t, 250.0, required[flourID])
}

func TestRequirementsFor_ScalesByServings(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()

	required, err := env.recipes.RequirementsFor(context.Background(), pizzaID, 3)

	require.NoError(t, err)
	assert.Equal(t, 600.0, required[flourID])
	assert.Equal(t, 300.0, required[cheeseID])
}

func TestRequirementsFor_RejectsNonPositiveServings(t *testing.T) {
	env := newTestEnv()
	_, _, pizzaID, _ := env.seedPizzeria()

	_, err := env.recipes.RequirementsFor(context.Background(), pizzaID, 0)

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}

func TestRequirementsFor_EmptyRecipeHasNoDemand(t *testing.T) {
	env := newTestEnv()
	env.seedPizzeria()
	ctx := context.Background()

	item, err := env.recipes.CreateMenuItem(ctx, CreateMenuItemCommand{Name: "Salad", Price: 6})
	require.NoError(t, err)

	required, err := env.recipes.RequirementsFor(ctx, item.ID, 2)

	require.NoError(t, err)
	assert.Empty(t, required)
}

func TestUpsertRequirement_ZeroQuantityContributesNoDemand(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	_, err := env.recipes.UpsertRequirement(ctx, UpsertRequirementCommand{
		MenuItemID: pizzaID, IngredientID: cheeseID, Quantity: 0,
	})
	require.NoError(t, err)

	required, err := env.recipes.RequirementsFor(ctx, pizzaID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{flourID}, required.IngredientIDs())
}

func TestRemoveRequirement(t *testing.T) {
	env := newTestEnv()
	flourID, cheeseID, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	err := env.recipes.RemoveRequirement(ctx, RemoveRequirementCommand{
		MenuItemID: pizzaID, IngredientID: cheeseID,
	})
	require.NoError(t, err)

	required, err := env.recipes.RequirementsFor(ctx, pizzaID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{flourID}, required.IngredientIDs())
}

func TestGetRecipe_ListsRequirements(t *testing.T) {
	env := newTestEnv()
	_, _, pizzaID, _ := env.seedPizzeria()

	rows, err := env.recipes.GetRecipe(context.Background(), GetRecipeQuery{MenuItemID: pizzaID})

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCreateMenuItem(t *testing.T) {
	env := newTestEnv()

	dto, err := env.recipes.CreateMenuItem(context.Background(), CreateMenuItemCommand{
		Name: "Tiramisu", Category: "desserts", Price: 7.5,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "Tiramisu", dto.Name)

	_, err = env.recipes.CreateMenuItem(context.Background(), CreateMenuItemCommand{Name: "", Price: 3})
	require.Error(t, err)
}

func TestDeleteMenuItem_RemovesRecipeRows(t *testing.T) {
	env := newTestEnv()
	_, _, pizzaID, _ := env.seedPizzeria()
	ctx := context.Background()

	err := env.recipes.DeleteMenuItem(ctx, pizzaID)
	require.NoError(t, err)

	_, err = env.recipes.GetMenuItem(ctx, pizzaID)
	require.Error(t, err)

	rows, err := env.recipeRepo.FindByMenuItem(ctx, pizzaID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteMenuItem_NotFound(t *testing.T) {
	env := newTestEnv()

	err := env.recipes.DeleteMenuItem(context.Background(), "missing")

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}
