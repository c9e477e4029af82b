// Package importer loads a document-extraction export into the spend schema.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spendlens/backend/internal/domain/invoice"
	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Source provides the raw export bytes
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	Describe() string
}

// Options controls a single import run
type Options struct {
	// Strict disables JSON repair so a truncated export fails the run
	Strict bool
	// KeepExisting skips deleting current spend data before importing
	KeepExisting bool
}

// Result summarizes an import run. Vendors and Customers count newly
// created rows only.
type Result struct {
	Documents int
	Vendors   int
	Customers int
	Invoices  int
	LineItems int
	Payments  int
	Skipped   int
	Repair    Repair
}

// Service runs imports against an invoice.ImportRepository
type Service struct {
	repo   invoice.ImportRepository
	picker StatusPicker
	now    func() time.Time
	logger *zap.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithStatusPicker replaces the random paid/pending assignment
func WithStatusPicker(p StatusPicker) ServiceOption {
	return func(s *Service) {
		s.picker = p
	}
}

// WithClock overrides the clock used for date fallbacks
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an import Service
func NewService(repo invoice.ImportRepository, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		picker: NewRandomStatusPicker(uint64(time.Now().UnixNano())),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run imports every document of src. Per-document failures are logged and
// counted as skipped; only source, parse and reset failures abort the run.
func (s *Service) Run(ctx context.Context, src Source, opts Options) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "importer", "run",
		attribute.String("source", src.Describe()),
		attribute.Bool("strict", opts.Strict),
	)
	defer span.End()

	result, err := s.run(ctx, src, opts)
	if err != nil {
		telemetry.RecordError(span, err)
		return result, err
	}
	span.SetAttributes(
		attribute.Int("documents", result.Documents),
		attribute.Int("invoices", result.Invoices),
		attribute.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, src Source, opts Options) (*Result, error) {
	result := &Result{}

	data, err := src.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("load export from %s: %w", src.Describe(), err)
	}

	if !opts.Strict {
		data, result.Repair = RepairJSON(data)
		if result.Repair.Applied {
			s.logger.Warn("Incomplete JSON detected, appended closing characters",
				zap.Int("braces", result.Repair.AddedBraces),
				zap.Int("brackets", result.Repair.AddedBrackets),
			)
		}
	}

	docs, err := SplitExport(data)
	if err != nil {
		return result, err
	}
	result.Documents = len(docs)
	s.logger.Info("Export parsed", zap.String("source", src.Describe()), zap.Int("documents", len(docs)))

	if !opts.KeepExisting {
		s.logger.Info("Clearing existing spend data")
		if err := s.repo.Reset(ctx); err != nil {
			return result, fmt.Errorf("reset spend data: %w", err)
		}
	}

	for i, raw := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doc, err := DecodeDocument(raw)
		if err != nil {
			result.Skipped++
			s.logger.Warn("Skipping undecodable document", zap.Int("index", i), zap.Error(err))
			continue
		}

		record, err := MapDocument(doc, s.now(), s.picker.Pick())
		if err != nil {
			result.Skipped++
			level := zap.WarnLevel
			if errors.Is(err, ErrNoExtractionData) {
				level = zap.DebugLevel
			}
			s.logger.Log(level, "Skipping document", zap.String("document_id", string(doc.ID)), zap.Error(err))
			continue
		}

		created, err := s.persist(ctx, record)
		if err != nil {
			result.Skipped++
			s.logger.Error("Failed to import document", zap.String("document_id", string(doc.ID)), zap.Error(err))
			continue
		}
		result.Vendors += created.vendors
		result.Customers += created.customers
		result.Invoices++
		result.LineItems += len(record.Invoice.LineItems)
		if record.Invoice.Payment != nil {
			result.Payments++
		}
	}

	s.logger.Info("Import finished",
		zap.Int("vendors", result.Vendors),
		zap.Int("customers", result.Customers),
		zap.Int("invoices", result.Invoices),
		zap.Int("line_items", result.LineItems),
		zap.Int("payments", result.Payments),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

type createdParties struct {
	vendors   int
	customers int
}

// persist writes one record in a single transaction
func (s *Service) persist(ctx context.Context, record *Record) (createdParties, error) {
	var created createdParties
	err := s.repo.InTransaction(ctx, func(tx invoice.ImportRepository) error {
		vendor, vendorCreated, err := tx.FindOrCreateVendor(ctx, record.Vendor)
		if err != nil {
			return err
		}
		customer, customerCreated, err := tx.FindOrCreateCustomer(ctx, record.Customer)
		if err != nil {
			return err
		}

		record.Invoice.VendorID = vendor.ID
		record.Invoice.CustomerID = customer.ID
		if err := tx.SaveInvoice(ctx, record.Invoice); err != nil {
			return err
		}

		created = createdParties{}
		if vendorCreated {
			created.vendors = 1
		}
		if customerCreated {
			created.customers = 1
		}
		return nil
	})
	return created, err
}
