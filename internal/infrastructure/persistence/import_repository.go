package persistence

import (
	"context"
	"fmt"

	"github.com/spendlens/backend/internal/domain/invoice"
	"github.com/spendlens/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// resetOrder lists spend tables children first so foreign keys hold during deletion
var resetOrder = []string{"payments", "line_items", "invoices", "customers", "vendors"}

// GormImportRepository implements invoice.ImportRepository using GORM
type GormImportRepository struct {
	db *gorm.DB
}

// NewGormImportRepository creates a new GormImportRepository
func NewGormImportRepository(db *gorm.DB) *GormImportRepository {
	return &GormImportRepository{db: db}
}

// Reset deletes every row of the spend tables in one transaction
func (r *GormImportRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range resetOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// FindOrCreateVendor inserts v unless a vendor with the same tax id exists
func (r *GormImportRepository) FindOrCreateVendor(ctx context.Context, v *invoice.Vendor) (*invoice.Vendor, bool, error) {
	model := models.VendorModelFromDomain(v)
	created, err := insertOrFetchByTaxID(r.db.WithContext(ctx), model, v.TaxID)
	if err != nil {
		return nil, false, fmt.Errorf("find or create vendor %q: %w", v.TaxID, err)
	}
	return model.ToDomain(), created, nil
}

// FindOrCreateCustomer inserts c unless a customer with the same tax id exists
func (r *GormImportRepository) FindOrCreateCustomer(ctx context.Context, c *invoice.Customer) (*invoice.Customer, bool, error) {
	model := models.CustomerModelFromDomain(c)
	created, err := insertOrFetchByTaxID(r.db.WithContext(ctx), model, c.TaxID)
	if err != nil {
		return nil, false, fmt.Errorf("find or create customer %q: %w", c.TaxID, err)
	}
	return model.ToDomain(), created, nil
}

// insertOrFetchByTaxID inserts model, or replaces it with the stored row when
// the tax id is already taken. The lookup uses a fresh value so the unsaved
// primary key does not end up in the WHERE clause.
func insertOrFetchByTaxID[T any](db *gorm.DB, model *T, taxID string) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tax_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var existing T
	if err := db.Where("tax_id = ?", taxID).First(&existing).Error; err != nil {
		return false, err
	}
	*model = existing
	return false, nil
}

// SaveInvoice inserts the invoice together with its line items and payment
func (r *GormImportRepository) SaveInvoice(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("save invoice %q: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// Count returns current row counts of the spend tables
func (r *GormImportRepository) Count(ctx context.Context) (invoice.Counts, error) {
	var counts invoice.Counts
	db := r.db.WithContext(ctx)
	targets := []struct {
		model any
		dest  *int64
	}{
		{&models.VendorModel{}, &counts.Vendors},
		{&models.CustomerModel{}, &counts.Customers},
		{&models.InvoiceModel{}, &counts.Invoices},
		{&models.LineItemModel{}, &counts.LineItems},
		{&models.PaymentModel{}, &counts.Payments},
	}
	for _, t := range targets {
		if err := db.Model(t.model).Count(t.dest).Error; err != nil {
			return invoice.Counts{}, fmt.Errorf("count rows: %w", err)
		}
	}
	return counts, nil
}

// InTransaction runs fn with a repository bound to a single transaction
func (r *GormImportRepository) InTransaction(ctx context.Context, fn func(repo invoice.ImportRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormImportRepository{db: tx})
	})
}
