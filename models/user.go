package models

import "time"

// User represents a guest interacting with the booking assistant.
// IDs are externally supplied (app installation or account identifier);
// users are created lazily on their first chat turn.
type User struct {
	ID              string    `bson:"id" json:"id"`
	FullName        string    `bson:"full_name" json:"fullName"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash    string    `bson:"password_hash,omitempty" json:"-"`
	LastInteraction time.Time `bson:"last_interaction" json:"lastInteraction"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}
