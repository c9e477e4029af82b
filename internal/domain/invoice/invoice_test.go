package invoice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		want        Category
	}{
		{"Consulting services", CategoryServices},
		{"Office chairs", CategoryOfficeSupplies},
		{"Annual SOFTWARE subscription", CategorySoftware},
		{"License renewal", CategorySoftware},
		{"Software maintenance service", CategorySoftware},
		{"Network equipment", CategoryHardware},
		{"Hotel Berlin 2 nights", CategoryTravel},
		{"Printer supplies", CategoryOfficeSupplies},
		{"Widgets", CategoryGeneral},
		{"", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.description))
		})
	}
}

func TestAllCategories(t *testing.T) {
	all := AllCategories()
	require.Len(t, all, 6)
	assert.Equal(t, CategoryGeneral, all[len(all)-1])
}

func TestNewVendor(t *testing.T) {
	v, err := NewVendor("Acme GmbH", "Main St 1", " DE123 ")
	require.NoError(t, err)
	assert.Equal(t, "DE123", v.TaxID)
	assert.NotEqual(t, uuid.Nil, v.ID)

	_, err = NewVendor("Acme", "", "  ")
	assert.ErrorIs(t, err, ErrTaxIDRequired)

	_, err = NewCustomer("Buyer", "", "")
	assert.ErrorIs(t, err, ErrTaxIDRequired)
}

func TestNewInvoice(t *testing.T) {
	totals := Totals{
		BeforeVat: decimal.NewFromInt(1000),
		Vat:       decimal.NewFromInt(190),
		WithVat:   decimal.NewFromInt(1190),
	}

	inv, err := NewInvoice("INV-1", time.Now(), uuid.New(), uuid.New(), totals, StatusPaid)
	require.NoError(t, err)
	assert.True(t, inv.TotalWithVat.Equal(decimal.NewFromInt(1190)))

	_, err = NewInvoice("", time.Now(), uuid.New(), uuid.New(), totals, StatusPaid)
	assert.ErrorIs(t, err, ErrInvoiceNumberRequired)

	_, err = NewInvoice("INV-2", time.Now(), uuid.New(), uuid.New(), totals, Status("void"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInvoice_AddLineItem(t *testing.T) {
	inv, err := NewInvoice("INV-1", time.Now(), uuid.New(), uuid.New(), Totals{}, StatusPending)
	require.NoError(t, err)

	item := inv.AddLineItem("Consulting services", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.NewFromInt(100))

	assert.Equal(t, inv.ID, item.InvoiceID)
	assert.Equal(t, CategoryServices, item.Category)
	assert.True(t, item.VatAmount.Equal(decimal.NewFromInt(19)), item.VatAmount.String())
	assert.True(t, item.TotalWithVat.Equal(decimal.NewFromInt(119)), item.TotalWithVat.String())
	assert.Len(t, inv.LineItems, 1)
}

func TestInvoice_SetPayment(t *testing.T) {
	inv, err := NewInvoice("INV-1", time.Now(), uuid.New(), uuid.New(), Totals{}, StatusPending)
	require.NoError(t, err)
	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	p := inv.SetPayment(due, DefaultPaymentTerms, DefaultBankAccount)

	assert.Same(t, p, inv.Payment)
	assert.Equal(t, inv.ID, p.InvoiceID)
	assert.Equal(t, "Net 30", p.PaymentTerms)
	assert.Equal(t, due, p.DueDate)
}
