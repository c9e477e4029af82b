package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/invoice"
)

// Fallbacks for fields missing from an extraction result
const (
	UnknownVendor      = "Unknown Vendor"
	UnknownCustomer    = "Unknown Customer"
	UnknownAddress     = "Unknown Address"
	unknownTaxIDPrefix = "UNKNOWN-"
	defaultDescription = "Item"
)

// ErrNoExtractionData marks documents without extractedData.llmData
var ErrNoExtractionData = errors.New("document has no extraction data")

// acceptedDateLayouts are tried in order. Layouts without a zone are UTC.
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Record is a mapped document ready to be persisted. Invoice.VendorID and
// Invoice.CustomerID point at Vendor and Customer until they are resolved
// against existing rows.
type Record struct {
	Vendor   *invoice.Vendor
	Customer *invoice.Customer
	Invoice  *invoice.Invoice
}

// MapDocument applies every fallback and derives the invoice aggregate.
// now stands in for missing invoice dates and anchors the default due date.
func MapDocument(doc *Document, now time.Time, status invoice.Status) (*Record, error) {
	if doc.ExtractedData == nil || doc.ExtractedData.LLMData == nil {
		return nil, ErrNoExtractionData
	}
	data := doc.ExtractedData.LLMData

	vf, _ := data.Vendor.get()
	vendor, err := invoice.NewVendor(
		stringOr(vf.VendorName, UnknownVendor),
		stringOr(vf.VendorAddress, UnknownAddress),
		stringOr(vf.VendorTaxID, unknownTaxIDPrefix+doc.ID.slice(0, 8)),
	)
	if err != nil {
		return nil, fmt.Errorf("vendor: %w", err)
	}

	cf, _ := data.Customer.get()
	customer, err := invoice.NewCustomer(
		stringOr(cf.CustomerName, UnknownCustomer),
		stringOr(cf.CustomerAddress, UnknownAddress),
		stringOr(cf.CustomerTaxID, unknownTaxIDPrefix+doc.ID.slice(8, 16)),
	)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}

	inf, _ := data.Invoice.get()
	invoiceDate, err := dateOr(inf.InvoiceDate, now)
	if err != nil {
		return nil, fmt.Errorf("invoice date: %w", err)
	}
	var deliveryDate *time.Time
	if raw, ok := nonEmpty(inf.DeliveryDate); ok {
		d, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("delivery date: %w", err)
		}
		deliveryDate = &d
	}

	sf, _ := data.Summary.get()
	inv, err := invoice.NewInvoice(
		stringOr(inf.InvoiceID, doc.ID.slice(0, 8)),
		invoiceDate,
		vendor.ID,
		customer.ID,
		invoice.Totals{
			BeforeVat: absOrZero(sf.SubTotal),
			Vat:       absOrZero(sf.TotalTax),
			WithVat:   absOrZero(sf.InvoiceTotal),
		},
		status,
	)
	if err != nil {
		return nil, err
	}
	inv.DeliveryDate = deliveryDate

	li, _ := data.LineItems.get()
	items, _ := li.Items.get()
	for _, item := range items {
		quantity, ok := item.Quantity.get()
		if !ok || quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		inv.AddLineItem(
			stringOr(item.Description, defaultDescription),
			quantity,
			absOrZero(item.UnitPrice),
			absOrZero(item.TotalPrice),
		)
	}

	pf, _ := data.Payment.get()
	dueDate, err := dateOr(pf.DueDate, now.Add(invoice.DefaultDueIn))
	if err != nil {
		return nil, fmt.Errorf("due date: %w", err)
	}
	inv.SetPayment(
		dueDate,
		stringOr(pf.PaymentTerms, invoice.DefaultPaymentTerms),
		stringOr(pf.BankAccountNumber, invoice.DefaultBankAccount),
	)

	return &Record{Vendor: vendor, Customer: customer, Invoice: inv}, nil
}

func nonEmpty(v *valueOf[string]) (string, bool) {
	s, ok := v.get()
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

func stringOr(v *valueOf[string], fallback string) string {
	if s, ok := nonEmpty(v); ok {
		return s
	}
	return fallback
}

func absOrZero(v *valueOf[decimal.Decimal]) decimal.Decimal {
	if d, ok := v.get(); ok {
		return d.Abs()
	}
	return decimal.Zero
}

func dateOr(v *valueOf[string], fallback time.Time) (time.Time, error) {
	raw, ok := nonEmpty(v)
	if !ok {
		return fallback.UTC(), nil
	}
	return parseDate(raw)
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
