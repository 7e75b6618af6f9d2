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

// TableRepository persists dining tables
type TableRepository struct {
	collection *mongo.Collection
}

func NewTableRepository(db *mongo.Database) *TableRepository {
	repo := &TableRepository{collection: db.Collection("tables")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *TableRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *TableRepository) Save(ctx context.Context, table *domain.Table) error {
	table.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, table); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

func (r *TableRepository) Update(ctx context.Context, table *domain.Table) error {
	table.UpdatedAt = time.Now()
	filter := bson.M{"_id": table.ID}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": table}); err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	return nil
}

func (r *TableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	var table domain.Table
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&table)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *TableRepository) FindAll(ctx context.Context) ([]*domain.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tables []*domain.Table
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}
