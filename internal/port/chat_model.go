package port

import "context"

// ChatMessage is a single turn in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest carries the data for one chat completion call.
type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// ChatResponse contains the model's reply.
type ChatResponse struct {
	Text      string
	ModelUsed string
}

// ChatModel abstracts an LLM chat-completion provider.
type ChatModel interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
