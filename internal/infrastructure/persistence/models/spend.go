package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/domain/invoice"
	"github.com/spendlens/backend/internal/domain/shared"
)

// All returns every spend model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&VendorModel{},
		&CustomerModel{},
		&InvoiceModel{},
		&LineItemModel{},
		&PaymentModel{},
	}
}

// VendorModel is the persistence model for the Vendor domain entity.
type VendorModel struct {
	BaseModel
	Name     string         `gorm:"type:varchar(255);not null"`
	Address  string         `gorm:"type:text"`
	TaxID    string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Invoices []InvoiceModel `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor.
func (m *VendorModel) ToDomain() *invoice.Vendor {
	return &invoice.Vendor{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Address:    m.Address,
		TaxID:      m.TaxID,
	}
}

// VendorModelFromDomain creates a persistence model from a domain Vendor.
func VendorModelFromDomain(v *invoice.Vendor) *VendorModel {
	m := &VendorModel{Name: v.Name, Address: v.Address, TaxID: v.TaxID}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name     string         `gorm:"type:varchar(255);not null"`
	Address  string         `gorm:"type:text"`
	TaxID    string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Invoices []InvoiceModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *invoice.Customer {
	return &invoice.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Address:    m.Address,
		TaxID:      m.TaxID,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer.
func CustomerModelFromDomain(c *invoice.Customer) *CustomerModel {
	m := &CustomerModel{Name: c.Name, Address: c.Address, TaxID: c.TaxID}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate.
// Line items and the payment are saved with the invoice and cascade on delete.
type InvoiceModel struct {
	BaseModel
	InvoiceNumber  string          `gorm:"type:varchar(100);not null;index"`
	InvoiceDate    time.Time       `gorm:"not null;index"`
	DeliveryDate   *time.Time
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalBeforeVat decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalVat       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalWithVat   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	LineItems      []LineItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payment        *PaymentModel   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		BaseEntity:     m.BaseModel.ToDomain(),
		InvoiceNumber:  m.InvoiceNumber,
		InvoiceDate:    m.InvoiceDate,
		DeliveryDate:   m.DeliveryDate,
		VendorID:       m.VendorID,
		CustomerID:     m.CustomerID,
		TotalBeforeVat: m.TotalBeforeVat,
		TotalVat:       m.TotalVat,
		TotalWithVat:   m.TotalWithVat,
		Status:         invoice.Status(m.Status),
	}
	for i := range m.LineItems {
		inv.LineItems = append(inv.LineItems, m.LineItems[i].ToDomain())
	}
	if m.Payment != nil {
		p := m.Payment.ToDomain()
		inv.Payment = &p
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model, including line items
// and payment, from a domain Invoice.
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate,
		DeliveryDate:   inv.DeliveryDate,
		VendorID:       inv.VendorID,
		CustomerID:     inv.CustomerID,
		TotalBeforeVat: inv.TotalBeforeVat,
		TotalVat:       inv.TotalVat,
		TotalWithVat:   inv.TotalWithVat,
		Status:         string(inv.Status),
	}
	m.FromDomainBaseEntity(inv.BaseEntity)
	for _, item := range inv.LineItems {
		m.LineItems = append(m.LineItems, *lineItemModelFromDomain(item, inv.BaseEntity))
	}
	if inv.Payment != nil {
		m.Payment = paymentModelFromDomain(*inv.Payment, inv.BaseEntity)
	}
	return m
}

// LineItemModel is the persistence model for an invoice line item.
type LineItemModel struct {
	BaseModel
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description    string          `gorm:"type:text;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBeforeVat decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VatRate        decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	VatAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalWithVat   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Category       string          `gorm:"type:varchar(50);not null;default:'General';index"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() invoice.LineItem {
	return invoice.LineItem{
		ID:             m.ID,
		InvoiceID:      m.InvoiceID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TotalBeforeVat: m.TotalBeforeVat,
		VatRate:        m.VatRate,
		VatAmount:      m.VatAmount,
		TotalWithVat:   m.TotalWithVat,
		Category:       invoice.Category(m.Category),
	}
}

// Line items and payments have no timestamps of their own in the domain;
// they take the invoice's.
func lineItemModelFromDomain(item invoice.LineItem, owner shared.BaseEntity) *LineItemModel {
	m := &LineItemModel{
		InvoiceID:      item.InvoiceID,
		Description:    item.Description,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		TotalBeforeVat: item.TotalBeforeVat,
		VatRate:        item.VatRate,
		VatAmount:      item.VatAmount,
		TotalWithVat:   item.TotalWithVat,
		Category:       string(item.Category),
	}
	m.FromDomainBaseEntity(shared.BaseEntity{ID: item.ID, CreatedAt: owner.CreatedAt, UpdatedAt: owner.UpdatedAt})
	return m
}

// PaymentModel is the persistence model for the payment terms of an invoice.
type PaymentModel struct {
	BaseModel
	InvoiceID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DueDate      time.Time `gorm:"not null;index"`
	PaymentTerms string    `gorm:"type:varchar(100);not null"`
	BankAccount  string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() invoice.Payment {
	return invoice.Payment{
		ID:           m.ID,
		InvoiceID:    m.InvoiceID,
		DueDate:      m.DueDate,
		PaymentTerms: m.PaymentTerms,
		BankAccount:  m.BankAccount,
	}
}

func paymentModelFromDomain(p invoice.Payment, owner shared.BaseEntity) *PaymentModel {
	m := &PaymentModel{
		InvoiceID:    p.InvoiceID,
		DueDate:      p.DueDate,
		PaymentTerms: p.PaymentTerms,
		BankAccount:  p.BankAccount,
	}
	m.FromDomainBaseEntity(shared.BaseEntity{ID: p.ID, CreatedAt: owner.CreatedAt, UpdatedAt: owner.UpdatedAt})
	return m
}
