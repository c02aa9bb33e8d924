package invoice

import (
	"context"

	"github.com/zombor/invoice-bot/internal/scanning"
)

// TextExtractor produces raw text from a media buffer
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string, progress ...scanning.ProgressFunc) (string, error)
}

// Pipeline composes text extraction and interpretation
type Pipeline struct {
	extractor   TextExtractor
	interpreter *Interpreter
}

// NewPipeline creates a Pipeline
func NewPipeline(extractor TextExtractor, interpreter *Interpreter) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		interpreter: interpreter,
	}
}

// ProcessMedia extracts the text of a PDF or image and interprets it as an
// invoice. Stage errors are returned unchanged.
func (p *Pipeline) ProcessMedia(ctx context.Context, data []byte, mimeType string, progress ...scanning.ProgressFunc) (*Record, error) {
	text, err := p.extractor.Extract(ctx, data, mimeType, progress...)
	if err != nil {
		return nil, err
	}
	return p.interpreter.Interpret(ctx, text)
}
