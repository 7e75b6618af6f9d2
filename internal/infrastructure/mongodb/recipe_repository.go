package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartdine/restaurant-service/internal/domain"
)

// RecipeRepository persists recipe requirement edges. One document per
// menu item and ingredient pair.
type RecipeRepository struct {
	collection *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	repo := &RecipeRepository{collection: db.Collection("recipes")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *RecipeRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "menuItemId", Value: 1}, {Key: "ingredientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ingredientId", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *RecipeRepository) Upsert(ctx context.Context, requirement *domain.RecipeRequirement) error {
	requirement.UpdatedAt = time.Now()
	filter := bson.M{
		"menuItemId":   requirement.MenuItemID,
		"ingredientId": requirement.IngredientID,
	}
	update := bson.M{
		"$set": bson.M{
			"quantity":  requirement.Quantity,
			"updatedAt": requirement.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":          requirement.ID,
			"menuItemId":   requirement.MenuItemID,
			"ingredientId": requirement.IngredientID,
			"createdAt":    requirement.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert recipe requirement: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Remove(ctx context.Context, menuItemID, ingredientID string) error {
	filter := bson.M{"menuItemId": menuItemID, "ingredientId": ingredientID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove recipe requirement: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *RecipeRepository) FindByMenuItem(ctx context.Context, menuItemID string) ([]*domain.RecipeRequirement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ingredientId", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"menuItemId": menuItemID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*domain.RecipeRequirement
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RecipeRepository) FindByIngredient(ctx context.Context, ingredientID string) ([]*domain.RecipeRequirement, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ingredientId": ingredientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*domain.RecipeRequirement
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
