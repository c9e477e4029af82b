package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlens/backend/internal/infrastructure/config"
	"github.com/spendlens/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newSQLiteDatabase opens an in-memory sqlite database with the spend schema
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabaseWithLogger(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newMockGormDB returns a gorm handle backed by sqlmock and the postgres dialector
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

// fixture inserts rows directly through the persistence models
type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	return &fixture{t: t, db: db}
}

func (f *fixture) base() models.BaseModel {
	now := time.Now().UTC()
	return models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (f *fixture) vendor(name string) *models.VendorModel {
	m := &models.VendorModel{BaseModel: f.base(), Name: name, TaxID: "TAX-" + name}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

func (f *fixture) customer(name string) *models.CustomerModel {
	m := &models.CustomerModel{BaseModel: f.base(), Name: name, TaxID: "CUST-" + name}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

func (f *fixture) invoice(number string, date time.Time, v *models.VendorModel, c *models.CustomerModel, total int64, status string) *models.InvoiceModel {
	m := &models.InvoiceModel{
		BaseModel:     f.base(),
		InvoiceNumber: number,
		InvoiceDate:   date.UTC(),
		VendorID:      v.ID,
		CustomerID:    c.ID,
		TotalWithVat:  decimal.NewFromInt(total),
		Status:        status,
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

func (f *fixture) lineItem(inv *models.InvoiceModel, category string, totalWithVat int64) {
	m := &models.LineItemModel{
		BaseModel:    f.base(),
		InvoiceID:    inv.ID,
		Description:  category + " item",
		Quantity:     decimal.NewFromInt(1),
		TotalWithVat: decimal.NewFromInt(totalWithVat),
		Category:     category,
	}
	require.NoError(f.t, f.db.Create(m).Error)
}

func (f *fixture) payment(inv *models.InvoiceModel, due time.Time) {
	m := &models.PaymentModel{
		BaseModel:    f.base(),
		InvoiceID:    inv.ID,
		DueDate:      due.UTC(),
		PaymentTerms: "Net 30",
		BankAccount:  "DE00",
	}
	require.NoError(f.t, f.db.Create(m).Error)
}
