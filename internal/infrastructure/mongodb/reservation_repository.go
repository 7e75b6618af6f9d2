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

// ReservationRepository persists table reservations
type ReservationRepository struct {
	collection *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	repo := &ReservationRepository{collection: db.Collection("reservations")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ReservationRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tableId", Value: 1}, {Key: "status", Value: 1}, {Key: "bookingTime", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *ReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	reservation.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	reservation.UpdatedAt = time.Now()
	filter := bson.M{"_id": reservation.ID}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": reservation}); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepository) FindAll(ctx context.Context) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReservationRepository) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{"status": status})
}

// FindApprovedInWindow returns the approved reservations for a table
// whose booking time falls strictly inside (from, to). excludeID, when
// set, removes one reservation from consideration so it does not
// conflict with itself.
func (r *ReservationRepository) FindApprovedInWindow(ctx context.Context, tableID string, from, to time.Time, excludeID string) ([]*domain.Reservation, error) {
	filter := bson.M{
		"tableId":     tableID,
		"status":      domain.ReservationApproved,
		"bookingTime": bson.M{"$gt": from, "$lt": to},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter)
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M) ([]*domain.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bookingTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reservations []*domain.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}
