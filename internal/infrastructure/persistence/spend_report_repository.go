package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormSpendReportRepository implements report.SpendReportRepository using GORM.
// Queries stay within SQL understood by both postgres and sqlite; date
// bucketing happens in the domain layer.
type GormSpendReportRepository struct {
	db *gorm.DB
}

// NewGormSpendReportRepository creates a new GormSpendReportRepository
func NewGormSpendReportRepository(db *gorm.DB) *GormSpendReportRepository {
	return &GormSpendReportRepository{db: db}
}

// GetSpendSummary returns invoice count, average gross total, and the gross
// total of invoices dated in [ytdStart, now].
func (r *GormSpendReportRepository) GetSpendSummary(ctx context.Context, ytdStart, now time.Time) (*report.SpendSummary, error) {
	type summaryResult struct {
		TotalInvoices       int64
		TotalSpendYtd       decimal.Decimal
		AverageInvoiceValue decimal.Decimal
	}

	var result summaryResult
	err := r.db.WithContext(ctx).Table("invoices i").
		Select(`
			COUNT(*) as total_invoices,
			COALESCE(SUM(CASE WHEN i.invoice_date >= ? AND i.invoice_date <= ? THEN i.total_with_vat ELSE 0 END), 0) as total_spend_ytd,
			COALESCE(AVG(i.total_with_vat), 0) as average_invoice_value
		`, ytdStart.UTC(), now.UTC()).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("query spend summary: %w", err)
	}

	return &report.SpendSummary{
		TotalSpendYTD:       result.TotalSpendYtd,
		TotalInvoices:       result.TotalInvoices,
		AverageInvoiceValue: result.AverageInvoiceValue,
	}, nil
}

// ListInvoiceAmounts returns date and gross total of every invoice
func (r *GormSpendReportRepository) ListInvoiceAmounts(ctx context.Context) ([]report.InvoiceAmount, error) {
	type amountResult struct {
		InvoiceDate  time.Time
		TotalWithVat decimal.Decimal
	}

	var results []amountResult
	err := r.db.WithContext(ctx).Table("invoices").
		Select("invoice_date, total_with_vat").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("query invoice amounts: %w", err)
	}

	amounts := make([]report.InvoiceAmount, len(results))
	for i, row := range results {
		amounts[i] = report.InvoiceAmount{
			InvoiceDate:  row.InvoiceDate,
			TotalWithVat: row.TotalWithVat,
		}
	}
	return amounts, nil
}

// GetTopVendors returns vendors ordered by gross spend, highest first.
// Vendors without invoices count as zero; ties go to the alphabetically first name.
func (r *GormSpendReportRepository) GetTopVendors(ctx context.Context, limit int) ([]report.VendorSpend, error) {
	type vendorResult struct {
		VendorID uuid.UUID
		Name     string
		Total    decimal.Decimal
	}

	var results []vendorResult
	err := r.db.WithContext(ctx).Table("vendors v").
		Select("v.id as vendor_id, v.name as name, COALESCE(SUM(i.total_with_vat), 0) as total").
		Joins("LEFT JOIN invoices i ON i.vendor_id = v.id").
		Group("v.id, v.name").
		Order("total DESC, v.name ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("query top vendors: %w", err)
	}

	vendors := make([]report.VendorSpend, len(results))
	for i, row := range results {
		vendors[i] = report.VendorSpend{
			VendorID: row.VendorID,
			Name:     row.Name,
			Total:    row.Total,
		}
	}
	return vendors, nil
}

// GetCategorySpend returns line-item categories ordered by gross spend
func (r *GormSpendReportRepository) GetCategorySpend(ctx context.Context, limit int) ([]report.CategorySpend, error) {
	type categoryResult struct {
		Category string
		Amount   decimal.Decimal
	}

	var results []categoryResult
	err := r.db.WithContext(ctx).Table("line_items li").
		Select("li.category as category, COALESCE(SUM(li.total_with_vat), 0) as amount").
		Group("li.category").
		Order("amount DESC, category ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("query category spend: %w", err)
	}

	categories := make([]report.CategorySpend, len(results))
	for i, row := range results {
		categories[i] = report.CategorySpend{
			Category: row.Category,
			Amount:   row.Amount,
		}
	}
	return categories, nil
}

// ListDuePayments returns the first limit payments due on or after from,
// each with the gross total of its invoice.
func (r *GormSpendReportRepository) ListDuePayments(ctx context.Context, from time.Time, limit int) ([]report.DuePayment, error) {
	type dueResult struct {
		DueDate time.Time
		Amount  decimal.Decimal
	}

	var results []dueResult
	err := r.db.WithContext(ctx).Table("payments p").
		Select("p.due_date as due_date, i.total_with_vat as amount").
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Where("p.due_date >= ?", from.UTC()).
		Order("p.due_date ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("query due payments: %w", err)
	}

	payments := make([]report.DuePayment, len(results))
	for i, row := range results {
		payments[i] = report.DuePayment{
			DueDate: row.DueDate,
			Amount:  row.Amount,
		}
	}
	return payments, nil
}
