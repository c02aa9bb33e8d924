package scanning

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedMediaType is returned for anything that is neither a PDF nor an image.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrDocumentParse is returned when a PDF buffer cannot be read.
	ErrDocumentParse = errors.New("document parse error")
	// ErrOCREngine is returned when an image cannot be decoded or recognized.
	ErrOCREngine = errors.New("ocr engine error")
)

// OCROptions configures a single text recognition run
type OCROptions struct {
	Languages               []string
	Whitelist               string
	PreserveInterwordSpaces bool
}

// OCR recognizes text in an encoded image
type OCR interface {
	Recognize(ctx context.Context, imageData []byte, opts OCROptions) (string, error)
}

// DocumentParser extracts the text layer of a PDF, pages in document order
type DocumentParser interface {
	ParseText(ctx context.Context, pdfData []byte) (string, error)
}

// ProgressFunc observes extraction stages. It never affects the result.
type ProgressFunc func(status string, progress float64)
