package invoice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// stripCodeFence removes a surrounding markdown code fence and its optional
// language tag
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	text = strings.TrimLeftFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '+'
	})
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseResponse decodes the completion into an untyped JSON object
func parseResponse(content string) (map[string]any, error) {
	text := stripCodeFence(content)

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", ErrMalformedResponse, raw)
	}
	return obj, nil
}

// parseRecord turns a completion into a validated Record
func parseRecord(content string) (*Record, error) {
	obj, err := parseResponse(content)
	if err != nil {
		return nil, err
	}
	if err := validateRequired(obj); err != nil {
		return nil, err
	}

	if _, ok := obj["tax"].(float64); !ok {
		obj["tax"] = float64(0)
	}

	return toRecord(obj), nil
}

func toRecord(obj map[string]any) *Record {
	record := &Record{
		InvoiceNo: strings.TrimSpace(stringValue(obj["invoiceNo"])),
		Date:      strings.TrimSpace(stringValue(obj["date"])),
		Seller:    optionalString(obj["seller"]),
		Buyer:     optionalString(obj["buyer"]),
		Tax:       obj["tax"].(float64),
		Total:     optionalNumber(obj["total"]),
		Items:     []LineItem{},
	}

	items, _ := obj["items"].([]any)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		record.Items = append(record.Items, LineItem{
			Name:      optionalString(item["name"]),
			Quantity:  optionalNumber(item["quantity"]),
			UnitPrice: optionalNumber(item["unitPrice"]),
			Subtotal:  optionalNumber(item["subtotal"]),
		})
	}
	return record
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

func optionalNumber(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
