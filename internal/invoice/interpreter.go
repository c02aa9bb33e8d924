package invoice

import (
	"context"
	"fmt"
)

// Interpreter turns raw invoice text into a validated Record with one
// completion round trip. It does not retry or cache.
type Interpreter struct {
	completer Completer
}

// NewInterpreter creates an Interpreter backed by completer
func NewInterpreter(completer Completer) *Interpreter {
	return &Interpreter{completer: completer}
}

// Interpret extracts an invoice from rawText. Only the first MaxTextLength
// characters are sent to the model.
func (i *Interpreter) Interpret(ctx context.Context, rawText string) (*Record, error) {
	content, err := i.completer.Complete(ctx, CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(rawText),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting completion: %w", err)
	}

	return parseRecord(content)
}
