package repository

import (
	"fmt"
	"time"

	"concierge/database"
	"concierge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepository defines the interface for booking data access.
// Upsert is idempotent on the booking ID so the orchestrator can retry a
// local write after a successful remote booking call.
type BookingRepository interface {
	Upsert(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	GetByRoomID(roomID string) ([]models.Booking, error)
	GetInRange(start, end time.Time) ([]models.Booking, error)
	Update(id string, upd models.BookingUpdate) (*models.Booking, error)
	Delete(id string) error
	MarkPaid(id, transactionID string) error
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "room_id", Value: 1}}},
		{Keys: bson.D{{Key: "check_in_date", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert writes a booking document keyed by its ID.
func (r *MongoBookingRepo) Upsert(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking, opts); err != nil {
		return fmt.Errorf("failed to upsert booking %s: %w", booking.ID, err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByUserID retrieves all bookings owned by a user.
func (r *MongoBookingRepo) GetByUserID(userID string) ([]models.Booking, error) {
	return r.find(bson.M{"user_id": userID})
}

// GetByRoomID retrieves all bookings for a room.
func (r *MongoBookingRepo) GetByRoomID(roomID string) ([]models.Booking, error) {
	return r.find(bson.M{"room_id": roomID})
}

// GetInRange retrieves bookings whose check-in date falls within the
// inclusive [start, end] bounds.
func (r *MongoBookingRepo) GetInRange(start, end time.Time) ([]models.Booking, error) {
	return r.find(bson.M{"check_in_date": bson.M{"$gte": start, "$lte": end}})
}

func (r *MongoBookingRepo) find(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Update applies the non-nil fields of upd and returns the updated document.
func (r *MongoBookingRepo) Update(id string, upd models.BookingUpdate) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if upd.RoomID != nil {
		set["room_id"] = *upd.RoomID
	}
	if upd.GuestName != nil {
		set["guest_name"] = *upd.GuestName
	}
	if upd.GuestEmail != nil {
		set["guest_email"] = *upd.GuestEmail
	}
	if upd.CheckInDate != nil {
		set["check_in_date"] = *upd.CheckInDate
	}
	if upd.CheckOutDate != nil {
		set["check_out_date"] = *upd.CheckOutDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	return &booking, nil
}

// Delete removes a booking by its ID.
func (r *MongoBookingRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid flips the paid flag and records the gateway transaction ID.
// The flag only ever moves to true; a failed later attempt never reverts it.
func (r *MongoBookingRepo) MarkPaid(id, transactionID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"is_paid":        true,
		"transaction_id": transactionID,
		"updated_at":     time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking %s paid: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
