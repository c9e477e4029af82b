// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
//   - Domain entities carry no GORM tags
//   - Persistence models hold the table mappings and mirror migrations/*.sql
//   - ToDomain / FromDomain convert between the two
//
// Structure:
//   - base.go: BaseModel shared by all tables
//   - spend.go: vendors, customers, invoices, line_items, payments
package models
