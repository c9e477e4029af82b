package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result caps of the dashboard views
const (
	TrendMonths        = 12
	TopVendorsLimit    = 10
	TopCategoriesLimit = 10
	UpcomingPayments   = 30
	InvoiceListLimit   = 100
)

// DocumentsUploadedRatio approximates the number of uploaded source documents
// from the invoice count. It is a display metric, not a stored count.
var DocumentsUploadedRatio = decimal.RequireFromString("0.15")

// SpendSummary is a read model for the headline dashboard figures
type SpendSummary struct {
	TotalSpendYTD       decimal.Decimal `json:"total_spend_ytd"`
	TotalInvoices       int64           `json:"total_invoices"`
	AverageInvoiceValue decimal.Decimal `json:"average_invoice_value"`
}

// DocumentsUploaded returns floor(TotalInvoices * DocumentsUploadedRatio)
func (s SpendSummary) DocumentsUploaded() int64 {
	return decimal.NewFromInt(s.TotalInvoices).Mul(DocumentsUploadedRatio).Floor().IntPart()
}

// InvoiceAmount is the date and gross total of a single invoice
type InvoiceAmount struct {
	InvoiceDate  time.Time       `json:"invoice_date"`
	TotalWithVat decimal.Decimal `json:"total_with_vat"`
}

// MonthlySpend aggregates invoices of one calendar month; Month is YYYY-MM
type MonthlySpend struct {
	Month        string          `json:"month"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSpend   decimal.Decimal `json:"total_spend"`
}

// VendorSpend is the gross invoiced total of one vendor
type VendorSpend struct {
	VendorID uuid.UUID       `json:"vendor_id"`
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
}

// CategorySpend is the gross line-item total of one category
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DuePayment is one upcoming payment and the gross amount of its invoice
type DuePayment struct {
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// DailyOutflow aggregates due payments of one day; Date is YYYY-MM-DD
type DailyOutflow struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceSummary is a flattened invoice row with vendor and customer names
type InvoiceSummary struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DeliveryDate  *time.Time      `json:"delivery_date"`
	VendorName    string          `json:"vendor_name"`
	CustomerName  string          `json:"customer_name"`
	TotalWithVat  decimal.Decimal `json:"total_with_vat"`
	Status        string          `json:"status"`
}

// InvoiceFilter narrows the invoice listing. Search matches invoice number,
// vendor name or customer name case-insensitively; Status is an exact match.
// Empty fields do not filter.
type InvoiceFilter struct {
	Search string
	Status string
	Limit  int
}

// SpendReportRepository defines the aggregation queries behind the dashboard
type SpendReportRepository interface {
	// GetSpendSummary returns totals; TotalSpendYTD covers invoices dated in [ytdStart, now]
	GetSpendSummary(ctx context.Context, ytdStart, now time.Time) (*SpendSummary, error)

	// ListInvoiceAmounts returns date and total of every invoice
	ListInvoiceAmounts(ctx context.Context) ([]InvoiceAmount, error)

	// GetTopVendors returns vendors by descending spend, including vendors without invoices
	GetTopVendors(ctx context.Context, limit int) ([]VendorSpend, error)

	// GetCategorySpend returns line-item categories by descending spend
	GetCategorySpend(ctx context.Context, limit int) ([]CategorySpend, error)

	// ListDuePayments returns the earliest payments due on or after from
	ListDuePayments(ctx context.Context, from time.Time, limit int) ([]DuePayment, error)
}

// InvoiceQueryRepository defines the invoice listing query
type InvoiceQueryRepository interface {
	SearchInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceSummary, error)
}
