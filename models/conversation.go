package models

import "time"

// Turn roles. Function turns carry the structured result of a dispatched
// function call, serialized as JSON in Content with the call name in Name.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
)

// Turn is one message exchange unit in a conversation.
type Turn struct {
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Conversation holds the ordered transcript for one user. There is one
// active conversation per user; the transcript is append-only and is
// persisted whole after each completed turn.
type Conversation struct {
	UserID    string    `bson:"user_id" json:"userId"`
	Turns     []Turn    `bson:"turns" json:"turns"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
