package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartdine/restaurant-service/internal/domain"
)

const defaultLedgerLimit = 100

// LedgerRepository persists the append-only stock movement ledger.
// Entries are never updated or deleted.
type LedgerRepository struct {
	collection *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	repo := &LedgerRepository{collection: db.Collection("stock_ledger")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *LedgerRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ingredientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *LedgerRepository) Append(ctx context.Context, entries ...*domain.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

func (r *LedgerRepository) FindByIngredient(ctx context.Context, ingredientID string, limit int64) ([]*domain.StockLedgerEntry, error) {
	return r.find(ctx, bson.M{"ingredientId": ingredientID}, limit)
}

func (r *LedgerRepository) FindAll(ctx context.Context, limit int64) ([]*domain.StockLedgerEntry, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *LedgerRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*domain.StockLedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*domain.StockLedgerEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
