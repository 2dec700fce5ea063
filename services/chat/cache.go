package chat

import (
	"context"
	"encoding/json"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

const conversationPrefix = "chat:conv:"

// TranscriptCache keeps a Redis snapshot of each user's transcript so chat
// turns avoid a Mongo read on the hot path. Mongo stays authoritative; the
// snapshot is refreshed on save and dropped on failure.
type TranscriptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranscriptCache(client *redis.Client, ttl time.Duration) *TranscriptCache {
	return &TranscriptCache{client: client, ttl: ttl}
}

// Get returns the cached transcript, or nil on a miss.
func (c *TranscriptCache) Get(ctx context.Context, userID string) (*models.Conversation, error) {
	data, err := c.client.Get(ctx, conversationPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *TranscriptCache) Set(ctx context.Context, conv *models.Conversation) error {
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, conversationPrefix+conv.UserID, b, c.ttl).Err()
}

func (c *TranscriptCache) Clear(ctx context.Context, userID string) error {
	return c.client.Del(ctx, conversationPrefix+userID).Err()
}
