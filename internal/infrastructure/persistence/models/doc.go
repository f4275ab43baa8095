// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared persistence fields (BaseModel, TenantAggregateModel)
//   - invoice.go: invoices
//   - accounting.go: account groups of every level and accounts
//   - import_history.go: CSV import runs
//
// Column types are kept portable (varchar, text, decimal) so the same models
// run against PostgreSQL in production and SQLite in tests.
package models

// AllModels lists every persistence model, in dependency order
func AllModels() []any {
	return []any{
		&InvoiceModel{},
		&GroupModel{},
		&AccountModel{},
		&ImportHistoryModel{},
	}
}
