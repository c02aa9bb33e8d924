package sheet

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/zombor/invoice-bot/internal/invoice"
)

// DefaultRange is the A1 range rows are appended to
const DefaultRange = "Sheet1!A:K"

// Sheets appends rows to a Google Sheets spreadsheet
type Sheets struct {
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheets creates a Sheets appender. opts carry credentials, for example
// option.WithCredentialsFile.
func NewSheets(ctx context.Context, spreadsheetID, writeRange string, opts ...option.ClientOption) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if writeRange == "" {
		writeRange = DefaultRange
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Sheets{
		service:       service,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
	}, nil
}

// Append appends the record's rows with USER_ENTERED value input
func (s *Sheets) Append(ctx context.Context, record *invoice.Record, processedAt time.Time) error {
	values := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         Rows(record, processedAt),
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.writeRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to spreadsheet %s: %w", s.spreadsheetID, err)
	}
	return nil
}
