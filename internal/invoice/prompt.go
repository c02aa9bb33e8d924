package invoice

import "strings"

const (
	// MaxTextLength caps the OCR text sent to the model, in characters
	MaxTextLength = 4000

	systemPrompt = "You are an expert at structured extraction from invoice documents."

	temperature = 0.2
	maxTokens   = 2000
)

const extractionPrompt = `Extract the following information from the invoice text below:

1. Invoice number (usually in the format INV-XXXX)
2. Date (format DD/MM/YYYY)
3. Seller name
4. Buyer name
5. Line items, each with name, quantity, unit price and subtotal
6. Tax (a number, use 0 if there is no tax)
7. Total

Return ONLY valid JSON in this exact format:
{
  "invoiceNo": "INV-XXXX",
  "date": "DD/MM/YYYY",
  "seller": "Seller Name",
  "buyer": "Buyer Name",
  "items": [
    {"name": "Item Name", "quantity": 0, "unitPrice": 0, "subtotal": 0}
  ],
  "tax": 0,
  "total": 0
}

Important:
- If you cannot find a field, use null for that field. Never leave a field out.
- Amounts and quantities must be numbers, not strings
- Do not include any text before or after the JSON

Invoice text:
`

// truncate returns the first n characters of s
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// buildPrompt returns the user prompt for rawText, truncated to MaxTextLength
func buildPrompt(rawText string) string {
	var b strings.Builder
	b.WriteString(extractionPrompt)
	b.WriteString(truncate(rawText, MaxTextLength))
	return b.String()
}
