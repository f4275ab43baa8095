// Package tenant provides tenant scoping for GORM queries.
//
// Every repository query that lists or aggregates a tenant's rows goes
// through Scope, so the tenant filter is applied in one place:
//
//	db.WithContext(ctx).Model(&models.AccountModel{}).Scopes(tenant.Scope(tenantID)).Find(&rows)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a query is scoped to the nil tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Column is the tenant discriminator column shared by every table
const Column = "tenant_id"

// Scope restricts a query to one tenant. The nil UUID never matches a
// tenant, so it fails the statement instead of silently returning nothing.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}
