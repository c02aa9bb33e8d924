package invoice

import "context"

// CompletionRequest is a single system+user chat completion
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer sends a chat completion and returns the first choice's text
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
