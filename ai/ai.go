// Package ai defines the text-generation boundary shared by all model
// providers. Concrete clients live in the anthropic and local subpackages;
// provider selection lives in the provider subpackage.
package ai

import "context"

// ChatRequest represents a high-level request to a language model
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // Override default temperature
	MaxTokens    *int     // Override default max tokens
	Model        *string  // Override default model
}

// Usage represents token usage information for one request
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatResponse represents the model response
type ChatResponse struct {
	Content string
	Usage   Usage
}

// Client is the interface all model providers implement.
// Chat blocks until the provider responds or ctx is done.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
