// Package chat owns the per-user conversation transcript and drives the
// LLM function-calling loop.
package chat

import (
	"context"

	"concierge/models"
)

// Service is the conversation engine contract.
type Service interface {
	// HandleTurn appends the user's message, runs the model (dispatching at
	// most one function call), and returns the turns produced this call.
	HandleTurn(ctx context.Context, userID, text string) ([]models.Turn, error)
	// AppendAssistantNote appends an assistant-authored turn outside the
	// model loop (e.g. a payment reminder).
	AppendAssistantNote(ctx context.Context, userID, text string) error
	GetConversation(ctx context.Context, userID string) (*models.Conversation, error)
	ResetConversation(ctx context.Context, userID string) error
}

// ModelReply is one round of model output: either natural-language text or
// a function-call instruction (never both populated meaningfully).
type ModelReply struct {
	Text string
	Call *models.FunctionCall
}

// LLMClient abstracts the chat-completion surface: a system prompt, the
// transcript so far, and the declared function schema go in; text or a
// function call comes out.
type LLMClient interface {
	Complete(ctx context.Context, system string, turns []models.Turn) (*ModelReply, error)
}

// FunctionDispatcher executes a model-issued function call and returns a
// structured result for inclusion in the next model turn.
type FunctionDispatcher interface {
	Dispatch(ctx context.Context, userID string, call models.FunctionCall) map[string]any
}
