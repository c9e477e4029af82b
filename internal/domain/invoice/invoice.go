package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/shared"
)

// Status is the settlement status of an invoice
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusPaid
}

// DefaultVatRate is applied to imported line items; the extraction export
// carries no per-line rate.
var DefaultVatRate = decimal.RequireFromString("0.19")

// Default payment terms for imported invoices
const (
	DefaultPaymentTerms = "Net 30"
	DefaultBankAccount  = "Not specified"
	DefaultDueIn        = 30 * 24 * time.Hour
)

var (
	ErrTaxIDRequired         = shared.NewDomainError("TAX_ID_REQUIRED", "Tax id is required")
	ErrInvoiceNumberRequired = shared.NewDomainError("INVOICE_NUMBER_REQUIRED", "Invoice number is required")
	ErrInvalidStatus         = shared.NewDomainError("INVALID_STATUS", "Invoice status must be pending or paid")
)

// Vendor issues invoices. Tax id is the natural key.
type Vendor struct {
	shared.BaseEntity
	Name    string
	Address string
	TaxID   string
}

// NewVendor creates a vendor identified by taxID
func NewVendor(name, address, taxID string) (*Vendor, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, ErrTaxIDRequired
	}
	return &Vendor{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
		TaxID:      taxID,
	}, nil
}

// Customer receives invoices. Tax id is the natural key.
type Customer struct {
	shared.BaseEntity
	Name    string
	Address string
	TaxID   string
}

// NewCustomer creates a customer identified by taxID
func NewCustomer(name, address, taxID string) (*Customer, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, ErrTaxIDRequired
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
		TaxID:      taxID,
	}, nil
}

// Invoice owns its line items and its single payment record.
//
// TotalWithVat is expected to equal TotalBeforeVat plus TotalVat. Totals come
// from the extraction export as-is and are not recomputed from line items.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber  string
	InvoiceDate    time.Time
	DeliveryDate   *time.Time
	VendorID       uuid.UUID
	CustomerID     uuid.UUID
	TotalBeforeVat decimal.Decimal
	TotalVat       decimal.Decimal
	TotalWithVat   decimal.Decimal
	Status         Status
	LineItems      []LineItem
	Payment        *Payment
}

// Totals groups the three invoice amounts
type Totals struct {
	BeforeVat decimal.Decimal
	Vat       decimal.Decimal
	WithVat   decimal.Decimal
}

// NewInvoice creates an invoice between vendor and customer
func NewInvoice(number string, date time.Time, vendorID, customerID uuid.UUID, totals Totals, status Status) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, ErrInvoiceNumberRequired
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Invoice{
		BaseEntity:     shared.NewBaseEntity(),
		InvoiceNumber:  number,
		InvoiceDate:    date,
		VendorID:       vendorID,
		CustomerID:     customerID,
		TotalBeforeVat: totals.BeforeVat,
		TotalVat:       totals.Vat,
		TotalWithVat:   totals.WithVat,
		Status:         status,
	}, nil
}

// AddLineItem attaches a line item priced at the default VAT rate
func (i *Invoice) AddLineItem(description string, quantity, unitPrice, totalBeforeVat decimal.Decimal) LineItem {
	vat := totalBeforeVat.Mul(DefaultVatRate)
	item := LineItem{
		ID:             uuid.New(),
		InvoiceID:      i.ID,
		Description:    description,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		TotalBeforeVat: totalBeforeVat,
		VatRate:        DefaultVatRate,
		VatAmount:      vat,
		TotalWithVat:   totalBeforeVat.Add(vat),
		Category:       Categorize(description),
	}
	i.LineItems = append(i.LineItems, item)
	return item
}

// SetPayment records the payment terms of the invoice, replacing any previous record
func (i *Invoice) SetPayment(dueDate time.Time, terms, bankAccount string) *Payment {
	i.Payment = &Payment{
		ID:           uuid.New(),
		InvoiceID:    i.ID,
		DueDate:      dueDate,
		PaymentTerms: terms,
		BankAccount:  bankAccount,
	}
	return i.Payment
}

// LineItem is one billed position of an invoice
type LineItem struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalBeforeVat decimal.Decimal
	VatRate        decimal.Decimal
	VatAmount      decimal.Decimal
	TotalWithVat   decimal.Decimal
	Category       Category
}

// Payment holds when and where an invoice is due
type Payment struct {
	ID           uuid.UUID
	InvoiceID    uuid.UUID
	DueDate      time.Time
	PaymentTerms string
	BankAccount  string
}
