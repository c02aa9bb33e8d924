package sheet

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/invoice-bot/internal/invoice"
)

const rowsBucketName = "rows"

// Ledger appends rows to a local BoltDB file, for running without Google
// credentials. Keys are the bucket sequence, so iteration follows append order.
type Ledger struct {
	db *bbolt.DB
}

// NewLedger opens or creates the ledger at path
func NewLedger(path string) (*Ledger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(rowsBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Append writes all rows of the record in a single transaction
func (l *Ledger) Append(ctx context.Context, record *invoice.Record, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(rowsBucketName))
		for _, row := range Rows(record, processedAt) {
			seq, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("allocating row key: %w", err)
			}
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshaling row: %w", err)
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := bucket.Put(key, data); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
		return nil
	})
}

// ReadRows returns every row in append order, cells rendered as strings
func (l *Ledger) ReadRows() ([][]string, error) {
	rows := make([][]string, 0)
	err := l.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(rowsBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var cells []any
			if err := json.Unmarshal(v, &cells); err != nil {
				return fmt.Errorf("unmarshaling row: %w", err)
			}
			row := make([]string, len(cells))
			for i, c := range cells {
				row[i] = cellString(c)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}
