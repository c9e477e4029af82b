package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormInvoiceQueryRepository implements report.InvoiceQueryRepository using GORM
type GormInvoiceQueryRepository struct {
	db *gorm.DB
}

// NewGormInvoiceQueryRepository creates a new GormInvoiceQueryRepository
func NewGormInvoiceQueryRepository(db *gorm.DB) *GormInvoiceQueryRepository {
	return &GormInvoiceQueryRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with wildcards in s taken literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// SearchInvoices lists invoices newest first. Search is a case-insensitive
// substring match on invoice number, vendor name or customer name. The term is
// used as given, whitespace included.
//
// SQLite's built-in LOWER folds ASCII letters only, so on the sqlite driver
// "müller" does not match "MÜLLER". PostgreSQL folds per the database locale.
func (r *GormInvoiceQueryRepository) SearchInvoices(ctx context.Context, filter report.InvoiceFilter) ([]report.InvoiceSummary, error) {
	type invoiceResult struct {
		ID            uuid.UUID
		InvoiceNumber string
		InvoiceDate   time.Time
		DeliveryDate  *time.Time
		VendorName    string
		CustomerName  string
		TotalWithVat  decimal.Decimal
		Status        string
	}

	query := r.db.WithContext(ctx).Table("invoices i").
		Select(`
			i.id as id,
			i.invoice_number as invoice_number,
			i.invoice_date as invoice_date,
			i.delivery_date as delivery_date,
			v.name as vendor_name,
			c.name as customer_name,
			i.total_with_vat as total_with_vat,
			i.status as status
		`).
		Joins("JOIN vendors v ON v.id = i.vendor_id").
		Joins("JOIN customers c ON c.id = i.customer_id")

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(
			`(LOWER(i.invoice_number) LIKE ? ESCAPE '\' OR LOWER(v.name) LIKE ? ESCAPE '\' OR LOWER(c.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("i.status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = report.InvoiceListLimit
	}

	var results []invoiceResult
	err := query.Order("i.invoice_date DESC").Order("i.invoice_number ASC").Limit(limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}

	invoices := make([]report.InvoiceSummary, len(results))
	for i, row := range results {
		invoices[i] = report.InvoiceSummary{
			ID:            row.ID,
			InvoiceNumber: row.InvoiceNumber,
			InvoiceDate:   row.InvoiceDate,
			DeliveryDate:  row.DeliveryDate,
			VendorName:    row.VendorName,
			CustomerName:  row.CustomerName,
			TotalWithVat:  row.TotalWithVat,
			Status:        row.Status,
		}
	}
	return invoices, nil
}
