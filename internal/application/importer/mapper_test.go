package importer

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mapNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func loadFixtureDocs(t *testing.T) []*Document {
	t.Helper()
	data, err := os.ReadFile("testdata/export.json")
	require.NoError(t, err)
	raws, err := SplitExport(data)
	require.NoError(t, err)

	docs := make([]*Document, 0, len(raws))
	for _, raw := range raws {
		doc, err := DecodeDocument(raw)
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func TestMapDocument_FullDocument(t *testing.T) {
	doc := loadFixtureDocs(t)[0]

	rec, err := MapDocument(doc, mapNow, invoice.StatusPaid)
	require.NoError(t, err)

	assert.Equal(t, "CPB Software (Germany) GmbH", rec.Vendor.Name)
	assert.Equal(t, "DE155400000", rec.Vendor.TaxID)
	assert.Equal(t, "Musterkunde AG", rec.Customer.Name)
	assert.Equal(t, "DE999999999", rec.Customer.TaxID)

	inv := rec.Invoice
	assert.Equal(t, "RE-2025-001", inv.InvoiceNumber)
	assert.True(t, inv.InvoiceDate.Equal(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, inv.DeliveryDate)
	assert.True(t, inv.DeliveryDate.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, rec.Vendor.ID, inv.VendorID)
	assert.Equal(t, rec.Customer.ID, inv.CustomerID)
	assert.Equal(t, "453.53", inv.TotalWithVat.String())
	assert.Equal(t, "381.12", inv.TotalBeforeVat.String())
	assert.Equal(t, "72.41", inv.TotalVat.String())
	assert.Equal(t, invoice.StatusPaid, inv.Status)

	require.Len(t, inv.LineItems, 2)
	license := inv.LineItems[0]
	assert.Equal(t, invoice.CategorySoftware, license.Category)
	assert.True(t, license.VatAmount.Equal(decimal.RequireFromString("24.7")))
	assert.True(t, license.TotalWithVat.Equal(decimal.RequireFromString("154.7")))
	assert.Equal(t, invoice.CategoryServices, inv.LineItems[1].Category)
	assert.Equal(t, "2", inv.LineItems[1].Quantity.String())

	require.NotNil(t, inv.Payment)
	assert.True(t, inv.Payment.DueDate.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "DE12 5004 0000 0123 4567 89", inv.Payment.BankAccount)
}

func TestMapDocument_Fallbacks(t *testing.T) {
	doc := loadFixtureDocs(t)[1]

	rec, err := MapDocument(doc, mapNow, invoice.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, UnknownAddress, rec.Vendor.Address)
	assert.Equal(t, UnknownCustomer, rec.Customer.Name)
	assert.Equal(t, UnknownAddress, rec.Customer.Address)
	assert.Equal(t, "UNKNOWN-22334455", rec.Customer.TaxID)

	inv := rec.Invoice
	assert.Equal(t, "66ff0011", inv.InvoiceNumber)
	assert.True(t, inv.InvoiceDate.Equal(mapNow))
	assert.Nil(t, inv.DeliveryDate)
	assert.Equal(t, "100", inv.TotalWithVat.String())
	assert.True(t, inv.TotalBeforeVat.IsZero())
	assert.Empty(t, inv.LineItems)

	require.NotNil(t, inv.Payment)
	assert.True(t, inv.Payment.DueDate.Equal(mapNow.Add(30*24*time.Hour)))
	assert.Equal(t, invoice.DefaultPaymentTerms, inv.Payment.PaymentTerms)
	assert.Equal(t, invoice.DefaultBankAccount, inv.Payment.BankAccount)
}

func TestMapDocument_VendorFallbackTaxID(t *testing.T) {
	doc, err := DecodeDocument(json.RawMessage(`{"_id":"abcdefgh12345678","extractedData":{"llmData":{}}}`))
	require.NoError(t, err)

	rec, err := MapDocument(doc, mapNow, invoice.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, UnknownVendor, rec.Vendor.Name)
	assert.Equal(t, "UNKNOWN-abcdefgh", rec.Vendor.TaxID)
	assert.Equal(t, "UNKNOWN-12345678", rec.Customer.TaxID)
}

func TestMapDocument_LineItemDefaults(t *testing.T) {
	doc, err := DecodeDocument(json.RawMessage(`{"_id":"x1","extractedData":{"llmData":{
		"lineItems":{"value":{"items":{"value":[
			{"quantity":{"value":0},"unitPrice":{"value":-5},"totalPrice":{"value":-10}},
			{"description":{"value":"Hotel Berlin"}}
		]}}}
	}}}`))
	require.NoError(t, err)

	rec, err := MapDocument(doc, mapNow, invoice.StatusPaid)
	require.NoError(t, err)

	items := rec.Invoice.LineItems
	require.Len(t, items, 2)
	assert.Equal(t, "Item", items[0].Description)
	assert.Equal(t, "1", items[0].Quantity.String())
	assert.Equal(t, "5", items[0].UnitPrice.String())
	assert.Equal(t, "10", items[0].TotalBeforeVat.String())
	assert.True(t, items[0].VatRate.Equal(invoice.DefaultVatRate))
	assert.Equal(t, invoice.CategoryGeneral, items[0].Category)
	assert.Equal(t, invoice.CategoryTravel, items[1].Category)
	assert.True(t, items[1].TotalWithVat.IsZero())
}

func TestMapDocument_Skips(t *testing.T) {
	docs := loadFixtureDocs(t)

	_, err := MapDocument(docs[2], mapNow, invoice.StatusPaid)
	assert.ErrorIs(t, err, ErrNoExtractionData)

	_, err = MapDocument(docs[3], mapNow, invoice.StatusPaid)
	assert.ErrorContains(t, err, "invoice date")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-02-03", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-02-03T10:20:30Z", time.Date(2025, 2, 3, 10, 20, 30, 0, time.UTC)},
		{"2025-02-03T10:20:30+02:00", time.Date(2025, 2, 3, 8, 20, 30, 0, time.UTC)},
		{"2025-02-03T10:20:30.123", time.Date(2025, 2, 3, 10, 20, 30, 123000000, time.UTC)},
		{"2025-02-03 10:20:30", time.Date(2025, 2, 3, 10, 20, 30, 0, time.UTC)},
		{"02/03/2025", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"Feb 3, 2025", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), got.String())
		})
	}

	_, err := parseDate("03.02.2025")
	assert.Error(t, err)
}

func TestRandomStatusPicker(t *testing.T) {
	a, b := NewRandomStatusPicker(42), NewRandomStatusPicker(42)
	paid := 0
	const n = 2000
	for i := 0; i < n; i++ {
		s := a.Pick()
		assert.Equal(t, s, b.Pick())
		if s == invoice.StatusPaid {
			paid++
		}
	}
	ratio := float64(paid) / n
	assert.InDelta(t, PaidRatio, ratio, 0.05)
	assert.Equal(t, invoice.StatusPending, FixedStatus(invoice.StatusPending).Pick())
}
