package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-bot/internal/invoice"
)

// workbookSheet is the worksheet rows are appended to
const workbookSheet = "Invoices"

// Workbook appends rows to a local XLSX file
type Workbook struct {
	path string
	mu   sync.Mutex
}

// NewWorkbook creates a Workbook appender. The file is created on first append.
func NewWorkbook(path string) (*Workbook, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}
	return &Workbook{path: path}, nil
}

// Append adds the record's rows after the last used row
func (w *Workbook) Append(ctx context.Context, record *invoice.Record, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(workbookSheet)
	if err != nil {
		return fmt.Errorf("reading workbook rows: %w", err)
	}

	next := len(existing) + 1
	for _, row := range Rows(record, processedAt) {
		if err := setRow(f, next, row); err != nil {
			return err
		}
		next++
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ReadRows returns every data row, header excluded, as display strings
func (w *Workbook) ReadRows() ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		return nil, fmt.Errorf("reading workbook rows: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	return rows[1:], nil
}

// open returns the workbook at path, creating it with a header row when missing
func (w *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(w.path); err == nil {
		f, err := excelize.OpenFile(w.path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		return f, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking workbook: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", workbookSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming worksheet: %w", err)
	}
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolving cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(workbookSheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
