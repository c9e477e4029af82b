package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// isoMillis renders timestamps like JavaScript's toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// StatsResponse holds the headline dashboard figures
type StatsResponse struct {
	TotalSpendYTD       float64 `json:"totalSpendYTD"`
	TotalInvoices       int64   `json:"totalInvoices"`
	DocumentsUploaded   int64   `json:"documentsUploaded"`
	AverageInvoiceValue float64 `json:"averageInvoiceValue"`
}

// InvoiceResponse is one row of the invoice listing
type InvoiceResponse struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	InvoiceDate   string  `json:"invoiceDate"`
	DeliveryDate  *string `json:"deliveryDate"`
	Vendor        string  `json:"vendor"`
	Customer      string  `json:"customer"`
	TotalWithVat  float64 `json:"totalWithVat"`
	Status        string  `json:"status"`
}

// InvoiceTrendResponse is the spend of one calendar month
type InvoiceTrendResponse struct {
	Month        string  `json:"month"`
	InvoiceCount int64   `json:"invoiceCount"`
	TotalSpend   float64 `json:"totalSpend"`
}

// VendorSpendResponse is the total invoiced by one vendor
type VendorSpendResponse struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// CategorySpendResponse is the line-item spend of one category
type CategorySpendResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CashOutflowResponse is the amount due on one day
type CashOutflowResponse struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// InvoiceListFilter is the query of the invoice listing endpoint
type InvoiceListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// FormatTimestamp renders t in UTC with millisecond precision, e.g. 2025-03-01T09:00:00.000Z
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
