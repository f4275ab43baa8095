package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// GroupRepository persists groups of every level. Every lookup takes the
// tenant id and the expected level so a node can never be resolved through
// the wrong tenant or at the wrong depth.
type GroupRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID uuid.UUID, level Level, id uuid.UUID) (*Group, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, level Level, filter shared.Filter) ([]Group, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, level Level, filter shared.Filter) (int64, error)

	// FindAllLevelsForTenant loads every group of the tenant ordered by
	// level then name, for tree building and name resolution.
	FindAllLevelsForTenant(ctx context.Context, tenantID uuid.UUID) ([]Group, error)

	ExistsByCode(ctx context.Context, tenantID uuid.UUID, level Level, code string, excludeID *uuid.UUID) (bool, error)
	CountChildren(ctx context.Context, tenantID, parentID uuid.UUID) (int64, error)

	Save(ctx context.Context, group *Group) error
	DeleteForTenant(ctx context.Context, tenantID uuid.UUID, level Level, id uuid.UUID) error
}

// AccountRepository persists accounts
type AccountRepository interface {
	shared.TenantRepository[Account]

	// FindByNameInGroup returns the accounts with the exact name under a
	// detailed group
	FindByNameInGroup(ctx context.Context, tenantID, detailedGroupID uuid.UUID, name string) ([]Account, error)
	CountByDetailedGroup(ctx context.Context, tenantID, detailedGroupID uuid.UUID) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
