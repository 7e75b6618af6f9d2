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

// MenuRepository persists menu items
type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	repo := &MenuRepository{collection: db.Collection("menu_items")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *MenuRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *MenuRepository) Save(ctx context.Context, item *domain.MenuItem) error {
	item.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	item.UpdatedAt = time.Now()
	filter := bson.M{"_id": item.ID}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": item}); err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]*domain.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}
