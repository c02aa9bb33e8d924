package invoice

import "errors"

var (
	// ErrMalformedResponse is returned when the completion is not a JSON object
	ErrMalformedResponse = errors.New("malformed completion response")
	// ErrIncompleteInvoice is returned when invoiceNo or date is missing or null
	ErrIncompleteInvoice = errors.New("incomplete invoice")
)

// Record is a validated invoice extracted from one media item
type Record struct {
	InvoiceNo string     `json:"invoiceNo"`
	Date      string     `json:"date"` // DD/MM/YYYY
	Seller    *string    `json:"seller"`
	Buyer     *string    `json:"buyer"`
	Items     []LineItem `json:"items"`
	Tax       float64    `json:"tax"`
	Total     *float64   `json:"total"`
}

// LineItem is a single invoice line. Amounts are taken verbatim from the model.
type LineItem struct {
	Name      *string  `json:"name"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice"`
	Subtotal  *float64 `json:"subtotal"`
}
