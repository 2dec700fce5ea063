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

// PaymentAttemptRepository is the settlement audit trail. Reserve enforces
// at most one pending attempt per booking, so concurrent settlements of the
// same booking are rejected instead of double-charged.
type PaymentAttemptRepository interface {
	Reserve(attempt *models.PaymentAttempt) error
	Complete(id, transactionID string) error
	Fail(id, reason string) error
	GetByBookingID(bookingID string) ([]models.PaymentAttempt, error)
}

// MongoPaymentAttemptRepo implements PaymentAttemptRepository using MongoDB.
type MongoPaymentAttemptRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentAttemptRepo creates a new instance of PaymentAttemptRepository using MongoDB.
func NewMongoPaymentAttemptRepo() PaymentAttemptRepository {
	repo := &MongoPaymentAttemptRepo{coll: database.Collection("payment_attempts")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create payment attempt indexes: %v\n", err)
	}
	return repo
}

func (r *MongoPaymentAttemptRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			// One in-flight attempt per booking.
			Keys: bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.AttemptStatusPending}),
		},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Reserve inserts a pending attempt. Returns ErrDuplicate when another
// attempt for the same booking is already in flight.
func (r *MongoPaymentAttemptRepo) Reserve(attempt *models.PaymentAttempt) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	attempt.Status = models.AttemptStatusPending
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, attempt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to reserve payment attempt: %w", err)
	}
	return nil
}

// Complete marks an attempt as settled with its gateway transaction ID.
func (r *MongoPaymentAttemptRepo) Complete(id, transactionID string) error {
	return r.finish(id, bson.M{
		"status":         models.AttemptStatusSucceeded,
		"transaction_id": transactionID,
		"updated_at":     time.Now(),
	})
}

// Fail marks an attempt as declined or errored with the given reason.
func (r *MongoPaymentAttemptRepo) Fail(id, reason string) error {
	return r.finish(id, bson.M{
		"status":     models.AttemptStatusFailed,
		"error":      reason,
		"updated_at": time.Now(),
	})
}

func (r *MongoPaymentAttemptRepo) finish(id string, set bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to finalize payment attempt %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByBookingID retrieves the attempt history for a booking.
func (r *MongoPaymentAttemptRepo) GetByBookingID(bookingID string) ([]models.PaymentAttempt, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var attempts []models.PaymentAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("failed to decode payment attempts: %w", err)
	}
	return attempts, nil
}
