package invoice

import "context"

// Counts is the number of rows per spend table
type Counts struct {
	Vendors   int64
	Customers int64
	Invoices  int64
	LineItems int64
	Payments  int64
}

// ImportRepository defines the writes performed by the import utility
type ImportRepository interface {
	// Reset deletes all spend data, children before parents
	Reset(ctx context.Context) error

	// FindOrCreateVendor returns the stored vendor with v's tax id, creating v
	// if none exists. created reports whether v was inserted.
	FindOrCreateVendor(ctx context.Context, v *Vendor) (stored *Vendor, created bool, err error)

	// FindOrCreateCustomer is FindOrCreateVendor for customers
	FindOrCreateCustomer(ctx context.Context, c *Customer) (stored *Customer, created bool, err error)

	// SaveInvoice inserts the invoice with its line items and payment
	SaveInvoice(ctx context.Context, inv *Invoice) error

	// Count returns current row counts
	Count(ctx context.Context) (Counts, error)

	// InTransaction runs fn against a repository bound to one transaction
	InTransaction(ctx context.Context, fn func(repo ImportRepository) error) error
}
