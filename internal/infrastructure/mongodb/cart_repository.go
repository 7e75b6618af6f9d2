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

// CartRepository persists session carts. One cart per session,
// replaced wholesale on every write.
type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	repo := &CartRepository{collection: db.Collection("carts")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *CartRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()
	filter := bson.M{"sessionId": cart.SessionID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, cart, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *CartRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
