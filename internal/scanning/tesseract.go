package scanning

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements OCR with libtesseract through gosseract.
// A fresh client is created per call; gosseract clients are not safe for
// concurrent use. A cancelled call returns at once, but the client keeps
// running in the background until libtesseract finishes the page.
type Tesseract struct{}

// NewTesseract creates a Tesseract OCR engine
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

type ocrResult struct {
	text string
	err  error
}

// Recognize runs text recognition over an encoded image
func (t *Tesseract) Recognize(ctx context.Context, imageData []byte, opts OCROptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan ocrResult, 1)
	go func() {
		text, err := t.recognize(imageData, opts)
		done <- ocrResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}

func (t *Tesseract) recognize(imageData []byte, opts OCROptions) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(opts.Languages...); err != nil {
			return "", fmt.Errorf("setting languages: %w", err)
		}
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			return "", fmt.Errorf("setting whitelist: %w", err)
		}
	}
	if opts.PreserveInterwordSpaces {
		if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
			return "", fmt.Errorf("setting preserve_interword_spaces: %w", err)
		}
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}
