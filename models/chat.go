package models

// ChatRequest is the payload coming into POST /api/chat.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message" binding:"required"`
}

// ChatResponse returns the updated transcript tail for the turn.
type ChatResponse struct {
	Messages []Turn `json:"messages"`
}

// FunctionCall is a model-issued structured instruction to invoke one of
// the declared operations.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}
