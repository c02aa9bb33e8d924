package scanning

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultLanguages is the OCR language set, Indonesian plus English
	DefaultLanguages = "ind+eng"

	// Whitelist restricts OCR output to digits, Latin letters and ./:- plus space
	Whitelist = "0123456789" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz" +
		"./:- "
)

// Extractor turns a media buffer into raw text, by OCR for images and by
// text-layer extraction for PDFs
type Extractor struct {
	ocr       OCR
	parser    DocumentParser
	languages []string
}

// NewExtractor creates an Extractor. parser may be nil, in which case PDFs are
// rejected as unsupported. languages is a "+" separated tesseract language set.
func NewExtractor(ocr OCR, parser DocumentParser, languages string) *Extractor {
	return &Extractor{
		ocr:       ocr,
		parser:    parser,
		languages: splitLanguages(languages),
	}
}

// Languages returns the OCR language set in use
func (e *Extractor) Languages() []string {
	return append([]string(nil), e.languages...)
}

// Extract dispatches on mimeType and returns the raw text of the media
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string, progress ...ProgressFunc) (string, error) {
	report := progressReporter(progress)
	mimeType = normalizeMimeType(mimeType)

	switch {
	case mimeType == pdfMimeType:
		if e.parser == nil {
			return "", fmt.Errorf("%w: %s (no document parser configured)", ErrUnsupportedMediaType, mimeType)
		}
		return e.extractDocument(ctx, data, report)
	case isImageMimeType(mimeType):
		if e.ocr == nil {
			return "", fmt.Errorf("%w: %s (no OCR engine configured)", ErrUnsupportedMediaType, mimeType)
		}
		return e.extractImage(ctx, data, mimeType, report)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mimeType)
	}
}

func (e *Extractor) extractDocument(ctx context.Context, data []byte, report ProgressFunc) (string, error) {
	report("parsing document", 0)
	text, err := e.parser.ParseText(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDocumentParse, err)
	}
	report("done", 1)
	return text, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, mimeType string, report ProgressFunc) (string, error) {
	report("decoding", 0)
	img, err := decodeImage(data, mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCREngine, err)
	}

	report("enhancing", 0.25)
	jpegData, err := encodeJPEG(Enhance(img))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCREngine, err)
	}

	report("recognizing text", 0.5)
	text, err := e.ocr.Recognize(ctx, jpegData, OCROptions{
		Languages:               e.Languages(),
		Whitelist:               Whitelist,
		PreserveInterwordSpaces: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCREngine, err)
	}
	report("done", 1)
	return text, nil
}

func splitLanguages(languages string) []string {
	if strings.TrimSpace(languages) == "" {
		languages = DefaultLanguages
	}
	var out []string
	for _, lang := range strings.Split(languages, "+") {
		if lang = strings.TrimSpace(lang); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

// progressReporter fans a status event out to every non-nil observer
func progressReporter(observers []ProgressFunc) ProgressFunc {
	return func(status string, progress float64) {
		for _, fn := range observers {
			if fn != nil {
				fn(status, progress)
			}
		}
	}
}
