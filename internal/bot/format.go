package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zombor/invoice-bot/internal/invoice"
)

const (
	savedMessage       = "✅ Invoice saved to spreadsheet"
	processFailurePref = "❌ Failed to process invoice: "
	saveFailurePref    = "❌ Failed to save invoice: "
)

// Format renders a record as a chat reply
func Format(record *invoice.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Invoice %s\n", record.InvoiceNo)
	fmt.Fprintf(&b, "Date: %s\n", record.Date)
	fmt.Fprintf(&b, "Seller: %s\n", orDash(record.Seller))
	fmt.Fprintf(&b, "Buyer: %s\n", orDash(record.Buyer))

	b.WriteString("\nItems:\n")
	if len(record.Items) == 0 {
		b.WriteString("-\n")
	}
	for i, item := range record.Items {
		fmt.Fprintf(&b, "%d. %s (%s x %s) = %s\n", i+1,
			orDash(item.Name),
			amount(item.Quantity),
			amount(item.UnitPrice),
			amount(item.Subtotal),
		)
	}

	fmt.Fprintf(&b, "\nTax: %s\n", formatNumber(record.Tax))
	fmt.Fprintf(&b, "Total: %s", amount(record.Total))
	return b.String()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func amount(f *float64) string {
	if f == nil {
		return "-"
	}
	return formatNumber(*f)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
