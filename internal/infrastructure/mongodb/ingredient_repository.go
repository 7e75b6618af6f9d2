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

// IngredientRepository persists ingredient aggregates
type IngredientRepository struct {
	collection *mongo.Collection
}

func NewIngredientRepository(db *mongo.Database) *IngredientRepository {
	repo := &IngredientRepository{collection: db.Collection("ingredients")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *IngredientRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "quantity", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *IngredientRepository) Save(ctx context.Context, ingredient *domain.Ingredient) error {
	ingredient.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, ingredient); err != nil {
		return fmt.Errorf("failed to save ingredient: %w", err)
	}
	return nil
}

func (r *IngredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	ingredient.UpdatedAt = time.Now()
	filter := bson.M{"_id": ingredient.ID}
	update := bson.M{"$set": ingredient}
	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return nil
}

func (r *IngredientRepository) FindByID(ctx context.Context, id string) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ingredient)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ingredients []*domain.Ingredient
	if err := cursor.All(ctx, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&ingredient)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *IngredientRepository) FindAll(ctx context.Context) ([]*domain.Ingredient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ingredients []*domain.Ingredient
	if err := cursor.All(ctx, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *IngredientRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil
}
