package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormGroupRepository implements GroupRepository over the account_groups table
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByIDForTenant finds a group by ID within a tenant at the given level
func (r *GormGroupRepository) FindByIDForTenant(ctx context.Context, tenantID uuid.UUID, level accounting.Level, id uuid.UUID) (*accounting.Group, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND level = ? AND id = ?", tenantID, level, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's groups of one level
func (r *GormGroupRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, level accounting.Level, filter shared.Filter) ([]accounting.Group, error) {
	query := r.applyFilter(r.scoped(ctx, tenantID, level), filter)
	query = paginate(query, filter, GroupSortFields, "code")

	var rows []models.GroupModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return groupsToDomain(rows), nil
}

// CountForTenant counts the tenant's groups of one level matching the filter
func (r *GormGroupRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, level accounting.Level, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.scoped(ctx, tenantID, level), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAllLevelsForTenant loads every group of the tenant
func (r *GormGroupRepository) FindAllLevelsForTenant(ctx context.Context, tenantID uuid.UUID) ([]accounting.Group, error) {
	var rows []models.GroupModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("level ASC, name ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return groupsToDomain(rows), nil
}

// ExistsByCode checks whether the code is taken at the level, ignoring excludeID
func (r *GormGroupRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, level accounting.Level, code string, excludeID *uuid.UUID) (bool, error) {
	query := r.scoped(ctx, tenantID, level).Where("code = ?", strings.TrimSpace(code))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountChildren counts the groups whose parent is parentID
func (r *GormGroupRepository) CountChildren(ctx context.Context, tenantID, parentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupModel{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a group. A code taken by a concurrent writer
// surfaces as DUPLICATE_CODE.
func (r *GormGroupRepository) Save(ctx context.Context, group *accounting.Group) error {
	err := saveTenantScoped(ctx, r.db, group.TenantID, models.GroupModelFromDomain(group))
	if err != nil && isUniqueViolation(err) {
		return accounting.NewDuplicateCodeError(group.Level, group.Code)
	}
	return err
}

// DeleteForTenant deletes a group within a tenant at the given level
func (r *GormGroupRepository) DeleteForTenant(ctx context.Context, tenantID uuid.UUID, level accounting.Level, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.GroupModel{}, "tenant_id = ? AND level = ? AND id = ?", tenantID, level, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return accounting.NewDependentsExistError(level)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormGroupRepository) scoped(ctx context.Context, tenantID uuid.UUID, level accounting.Level) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.GroupModel{}).Where("tenant_id = ? AND level = ?", tenantID, level)
}

func (r *GormGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

func groupsToDomain(rows []models.GroupModel) []accounting.Group {
	groups := make([]accounting.Group, len(rows))
	for i := range rows {
		groups[i] = *rows[i].ToDomain()
	}
	return groups
}

// Ensure GormGroupRepository implements GroupRepository
var _ accounting.GroupRepository = (*GormGroupRepository)(nil)
