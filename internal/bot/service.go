package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zombor/invoice-bot/internal/invoice"
	"github.com/zombor/invoice-bot/internal/scanning"
	"github.com/zombor/invoice-bot/internal/sheet"
)

// Processor runs the invoice pipeline over one media item
type Processor interface {
	ProcessMedia(ctx context.Context, data []byte, mimeType string, progress ...scanning.ProgressFunc) (*invoice.Record, error)
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Message is an inbound chat message carrying a media attachment
type Message struct {
	ID       string
	Sender   string
	Filename string
	MIMEType string
	Data     []byte
}

// Reply is what the sender is told. Record is nil when processing failed.
type Reply struct {
	Record   *invoice.Record
	Messages []string
}

// Service handles inbound media messages
type Service struct {
	processor  Processor
	appender   sheet.Appender
	timeSource TimeSource
	slots      chan struct{}
}

// NewService creates a Service. maxConcurrent caps simultaneous pipeline
// runs; 0 means unlimited.
func NewService(processor Processor, appender sheet.Appender, maxConcurrent int) *Service {
	return NewServiceWithDeps(processor, appender, maxConcurrent, defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with a custom time source for testing
func NewServiceWithDeps(processor Processor, appender sheet.Appender, maxConcurrent int, timeSrc TimeSource) *Service {
	s := &Service{
		processor:  processor,
		appender:   appender,
		timeSource: timeSrc,
	}
	if maxConcurrent > 0 {
		s.slots = make(chan struct{}, maxConcurrent)
	}
	return s
}

// HandleMedia processes a message and appends the invoice to the spreadsheet.
// The returned Reply is always safe to send; err is non-nil when either the
// pipeline or the append failed.
func (s *Service) HandleMedia(ctx context.Context, msg Message) (Reply, error) {
	log := slog.With("message_id", msg.ID, "sender", msg.Sender)

	if err := s.acquire(ctx); err != nil {
		return Reply{Messages: []string{processFailurePref + err.Error()}}, err
	}
	defer s.release()

	log.Info("Processing media", "content_type", msg.MIMEType, "filename", msg.Filename, "size", len(msg.Data))
	start := s.timeSource.Now()

	record, err := s.processor.ProcessMedia(ctx, msg.Data, msg.MIMEType, func(status string, progress float64) {
		log.Debug("Extraction progress", "status", status, "progress", progress)
	})
	if err != nil {
		log.Error("Failed to process invoice",
			"content_type", msg.MIMEType,
			"file_size", len(msg.Data),
			"error", err,
		)
		return Reply{Messages: []string{processFailurePref + err.Error()}}, fmt.Errorf("processing media: %w", err)
	}

	processedAt := s.timeSource.Now()
	summary := Format(record)
	log.Info("Invoice extracted",
		"invoice_no", record.InvoiceNo,
		"items", len(record.Items),
		"elapsed_ms", processedAt.Sub(start).Milliseconds(),
	)

	if err := s.appender.Append(ctx, record, processedAt); err != nil {
		log.Error("Failed to save invoice", "invoice_no", record.InvoiceNo, "error", err)
		return Reply{
			Record:   record,
			Messages: []string{summary, saveFailurePref + err.Error()},
		}, fmt.Errorf("saving invoice: %w", err)
	}

	log.Info("Invoice saved", "invoice_no", record.InvoiceNo)
	return Reply{
		Record:   record,
		Messages: []string{summary, savedMessage},
	}, nil
}

func (s *Service) acquire(ctx context.Context) error {
	if s.slots == nil {
		return nil
	}
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) release() {
	if s.slots != nil {
		<-s.slots
	}
}
