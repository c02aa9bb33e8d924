package sheet

import (
	"context"
	"strconv"
	"time"

	"github.com/zombor/invoice-bot/internal/invoice"
)

// Appender persists a processed invoice as spreadsheet rows
type Appender interface {
	// Append writes one row per line item. processedAt is stamped on every row.
	Append(ctx context.Context, record *invoice.Record, processedAt time.Time) error
}

// Header names the columns written by Rows
var Header = []string{
	"Invoice No", "Date", "Seller", "Buyer", "Item", "Quantity",
	"Unit Price", "Subtotal", "Tax", "Total", "Processed At",
}

// timestampLayout is ISO-8601 UTC with milliseconds
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Rows flattens a record into one row per line item, in item order. A record
// without items still produces a single row with empty item cells.
func Rows(record *invoice.Record, processedAt time.Time) [][]any {
	stamp := processedAt.UTC().Format(timestampLayout)

	items := record.Items
	if len(items) == 0 {
		items = []invoice.LineItem{{}}
	}

	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{
			record.InvoiceNo,
			record.Date,
			text(record.Seller),
			text(record.Buyer),
			text(item.Name),
			number(item.Quantity),
			number(item.UnitPrice),
			number(item.Subtotal),
			record.Tax,
			number(record.Total),
			stamp,
		})
	}
	return rows
}

func text(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

func number(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}

// cellString renders a cell the way it would be typed into a sheet
func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
