// Package report computes the spend dashboard views.
package report

import (
	"context"
	"strings"
	"time"

	"github.com/spendlens/backend/internal/domain/report"
	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SpendReportService exposes the read-only dashboard operations
type SpendReportService struct {
	repo     report.SpendReportRepository
	invoices report.InvoiceQueryRepository
	now      func() time.Time
	location *time.Location
}

// Option configures a SpendReportService
type Option func(*SpendReportService)

// WithClock overrides the clock used for "now"
func WithClock(now func() time.Time) Option {
	return func(s *SpendReportService) {
		s.now = now
	}
}

// WithLocation sets the time zone in which the reporting year starts
func WithLocation(loc *time.Location) Option {
	return func(s *SpendReportService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewSpendReportService creates a new SpendReportService
func NewSpendReportService(repo report.SpendReportRepository, invoices report.InvoiceQueryRepository, opts ...Option) *SpendReportService {
	s := &SpendReportService{
		repo:     repo,
		invoices: invoices,
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// yearStart returns Jan 1 00:00 of now's year in the report location
func (s *SpendReportService) yearStart(now time.Time) time.Time {
	local := now.In(s.location)
	return time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, s.location)
}

// GetStats returns year-to-date spend, invoice count and averages
func (s *SpendReportService) GetStats(ctx context.Context) (*StatsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "stats")
	defer span.End()

	now := s.now()
	summary, err := s.repo.GetSpendSummary(ctx, s.yearStart(now), now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &StatsResponse{
		TotalSpendYTD:       toFloat64(summary.TotalSpendYTD),
		TotalInvoices:       summary.TotalInvoices,
		DocumentsUploaded:   summary.DocumentsUploaded(),
		AverageInvoiceValue: toFloat64(summary.AverageInvoiceValue),
	}, nil
}

// ListInvoices returns at most report.InvoiceListLimit invoices, newest first
func (s *SpendReportService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "invoices",
		attribute.Bool("filter.search", filter.Search != ""),
		attribute.String("filter.status", filter.Status),
	)
	defer span.End()

	rows, err := s.invoices.SearchInvoices(ctx, report.InvoiceFilter{
		Search: filter.Search,
		Status: strings.TrimSpace(filter.Status),
		Limit:  report.InvoiceListLimit,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	out := make([]InvoiceResponse, 0, len(rows))
	for _, r := range rows {
		item := InvoiceResponse{
			ID:            r.ID.String(),
			InvoiceNumber: r.InvoiceNumber,
			InvoiceDate:   FormatTimestamp(r.InvoiceDate),
			Vendor:        r.VendorName,
			Customer:      r.CustomerName,
			TotalWithVat:  toFloat64(r.TotalWithVat),
			Status:        r.Status,
		}
		if r.DeliveryDate != nil {
			d := FormatTimestamp(*r.DeliveryDate)
			item.DeliveryDate = &d
		}
		out = append(out, item)
	}
	return out, nil
}

// GetInvoiceTrends returns the last report.TrendMonths months that have invoices
func (s *SpendReportService) GetInvoiceTrends(ctx context.Context) ([]InvoiceTrendResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "invoice_trends")
	defer span.End()

	amounts, err := s.repo.ListInvoiceAmounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	buckets := report.BucketByMonth(amounts, report.TrendMonths)
	out := make([]InvoiceTrendResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, InvoiceTrendResponse{
			Month:        b.Month,
			InvoiceCount: b.InvoiceCount,
			TotalSpend:   toFloat64(b.TotalSpend),
		})
	}
	return out, nil
}

// GetTopVendors returns the report.TopVendorsLimit vendors with the highest spend
func (s *SpendReportService) GetTopVendors(ctx context.Context) ([]VendorSpendResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "top_vendors")
	defer span.End()

	vendors, err := s.repo.GetTopVendors(ctx, report.TopVendorsLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	out := make([]VendorSpendResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, VendorSpendResponse{Name: v.Name, Total: toFloat64(v.Total)})
	}
	return out, nil
}

// GetCategorySpend returns the report.TopCategoriesLimit categories with the highest spend
func (s *SpendReportService) GetCategorySpend(ctx context.Context) ([]CategorySpendResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "category_spend")
	defer span.End()

	categories, err := s.repo.GetCategorySpend(ctx, report.TopCategoriesLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	out := make([]CategorySpendResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategorySpendResponse{Category: c.Category, Amount: toFloat64(c.Amount)})
	}
	return out, nil
}

// GetCashOutflow returns the next report.UpcomingPayments due payments summed per day
func (s *SpendReportService) GetCashOutflow(ctx context.Context) ([]CashOutflowResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "cash_outflow")
	defer span.End()

	payments, err := s.repo.ListDuePayments(ctx, s.now(), report.UpcomingPayments)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	days := report.BucketByDay(payments)
	out := make([]CashOutflowResponse, 0, len(days))
	for _, d := range days {
		out = append(out, CashOutflowResponse{Date: d.Date, Amount: toFloat64(d.Amount)})
	}
	return out, nil
}
