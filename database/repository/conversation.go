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

// ConversationRepository defines the interface for transcript data access.
// Transcripts are persisted whole after each completed turn; partial-turn
// persistence never happens at this layer.
type ConversationRepository interface {
	GetByUserID(userID string) (*models.Conversation, error)
	Save(conv *models.Conversation) error
	Delete(userID string) error
}

// MongoConversationRepo implements ConversationRepository using MongoDB.
type MongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo creates a new instance of ConversationRepository using MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	repo := &MongoConversationRepo{coll: database.Collection("conversations")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create conversation indexes: %v\n", err)
	}
	return repo
}

func (r *MongoConversationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByUserID retrieves the conversation for a user.
func (r *MongoConversationRepo) GetByUserID(userID string) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var conv models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch conversation for user %s: %w", userID, err)
	}
	return &conv, nil
}

// Save replaces the stored transcript with the given one, creating it if absent.
func (r *MongoConversationRepo) Save(conv *models.Conversation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	conv.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": conv.UserID}, conv, opts); err != nil {
		return fmt.Errorf("failed to save conversation for user %s: %w", conv.UserID, err)
	}
	return nil
}

// Delete removes the conversation for a user.
func (r *MongoConversationRepo) Delete(userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete conversation for user %s: %w", userID, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
