// Package accounting holds the chart-of-accounts application services.
package accounting

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// GroupService manages the four group levels of the chart of accounts
type GroupService struct {
	groups   accounting.GroupRepository
	accounts accounting.AccountRepository
	logger   *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(groups accounting.GroupRepository, accounts accounting.AccountRepository, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{groups: groups, accounts: accounts, logger: logger}
}

// CreateMainGroup creates a root group
func (s *GroupService) CreateMainGroup(ctx context.Context, tenantID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	req.ParentID = nil
	return s.CreateGroup(ctx, tenantID, accounting.LevelMain, req)
}

// CreateElementGroup creates an element group under a main group
func (s *GroupService) CreateElementGroup(ctx context.Context, tenantID, mainGroupID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	req.ParentID = &mainGroupID
	return s.CreateGroup(ctx, tenantID, accounting.LevelElement, req)
}

// CreateSubElementGroup creates a sub element group under an element group
func (s *GroupService) CreateSubElementGroup(ctx context.Context, tenantID, elementGroupID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	req.ParentID = &elementGroupID
	return s.CreateGroup(ctx, tenantID, accounting.LevelSubElement, req)
}

// CreateDetailedGroup creates a detailed group under a sub element group
func (s *GroupService) CreateDetailedGroup(ctx context.Context, tenantID, subElementGroupID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	req.ParentID = &subElementGroupID
	return s.CreateGroup(ctx, tenantID, accounting.LevelDetailed, req)
}

// CreateGroup creates a group at the given level. The parent is looked up
// within the tenant at the level directly above; a miss is PARENT_NOT_FOUND.
func (s *GroupService) CreateGroup(ctx context.Context, tenantID uuid.UUID, level accounting.Level, req CreateGroupRequest) (*GroupResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "chart_of_accounts", "create_group",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrGroupLevel.String(level.String()),
	)
	defer span.End()

	if !level.IsValid() {
		return nil, accounting.NewInvalidLevelError(level.String())
	}

	var (
		group *accounting.Group
		err   error
	)
	if level == accounting.LevelMain {
		group, err = accounting.NewMainGroup(tenantID, req.Name, req.Code)
	} else {
		var parent *accounting.Group
		parent, err = s.findParent(ctx, tenantID, level, req.ParentID)
		if err != nil {
			return nil, err
		}
		group, err = accounting.NewChildGroup(tenantID, level, req.Name, req.Code, parent)
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.groups.ExistsByCode(ctx, tenantID, level, group.Code, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, accounting.NewDuplicateCodeError(level, group.Code)
	}

	group.Description = strings.TrimSpace(req.Description)
	if req.CreatedBy != nil {
		group.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.groups.Save(ctx, group); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return ToGroupResponse(group), nil
}

// GetGroup retrieves a group by level and ID
func (s *GroupService) GetGroup(ctx context.Context, tenantID uuid.UUID, level accounting.Level, id uuid.UUID) (*GroupResponse, error) {
	if !level.IsValid() {
		return nil, accounting.NewInvalidLevelError(level.String())
	}
	group, err := s.groups.FindByIDForTenant(ctx, tenantID, level, id)
	if err != nil {
		return nil, err
	}
	return ToGroupResponse(group), nil
}

// UpdateGroup applies a patch to a group. A changed code is re-checked for
// uniqueness and a new parent is validated like on creation.
func (s *GroupService) UpdateGroup(ctx context.Context, tenantID uuid.UUID, level accounting.Level, id uuid.UUID, req UpdateGroupRequest) (*GroupResponse, error) {
	if !level.IsValid() {
		return nil, accounting.NewInvalidLevelError(level.String())
	}
	group, err := s.groups.FindByIDForTenant(ctx, tenantID, level, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Code != nil {
		name, code := group.Name, group.Code
		if req.Name != nil {
			name = *req.Name
		}
		if req.Code != nil {
			code = *req.Code
		}
		previousCode := group.Code
		if err := group.Rename(name, code); err != nil {
			return nil, err
		}
		if group.Code != previousCode {
			exists, err := s.groups.ExistsByCode(ctx, tenantID, level, group.Code, &group.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, accounting.NewDuplicateCodeError(level, group.Code)
			}
		}
	}

	if req.Description != nil {
		group.SetDescription(*req.Description)
	}
	if req.IsActive != nil {
		group.SetActive(*req.IsActive)
	}
	if req.ParentID != nil {
		parent, err := s.findParent(ctx, tenantID, level, req.ParentID)
		if err != nil {
			return nil, err
		}
		if err := group.MoveTo(parent); err != nil {
			return nil, err
		}
	}

	if err := s.groups.Save(ctx, group); err != nil {
		return nil, err
	}
	return ToGroupResponse(group), nil
}

// DeleteGroup removes a group that has no children. Detailed groups count
// their accounts as children.
func (s *GroupService) DeleteGroup(ctx context.Context, tenantID uuid.UUID, level accounting.Level, id uuid.UUID) error {
	if !level.IsValid() {
		return accounting.NewInvalidLevelError(level.String())
	}
	group, err := s.groups.FindByIDForTenant(ctx, tenantID, level, id)
	if err != nil {
		return err
	}

	var children int64
	if level == accounting.LevelDetailed {
		children, err = s.accounts.CountByDetailedGroup(ctx, tenantID, group.ID)
	} else {
		children, err = s.groups.CountChildren(ctx, tenantID, group.ID)
	}
	if err != nil {
		return err
	}
	if children > 0 {
		return accounting.NewHasChildrenError(level, children)
	}

	if err := s.groups.DeleteForTenant(ctx, tenantID, level, group.ID); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Group deleted",
		zap.String("level", level.String()),
		zap.String("group_id", group.ID.String()),
	)
	return nil
}

// ListGroups lists a tenant's groups at one level with a total count
func (s *GroupService) ListGroups(ctx context.Context, tenantID uuid.UUID, level accounting.Level, filter GroupListFilter) ([]GroupResponse, int64, error) {
	if !level.IsValid() {
		return nil, 0, accounting.NewInvalidLevelError(level.String())
	}

	domainFilter := toDomainFilter(filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortDesc)
	if filter.ParentID != nil {
		domainFilter = domainFilter.With("parent_id", *filter.ParentID)
	}
	if filter.IsActive != nil {
		domainFilter = domainFilter.With("is_active", *filter.IsActive)
	}

	groups, err := s.groups.FindAllForTenant(ctx, tenantID, level, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groups.CountForTenant(ctx, tenantID, level, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		if !s.ownedBy(ctx, tenantID, groups[i].TenantID, groups[i].ID) {
			continue
		}
		responses = append(responses, *ToGroupResponse(&groups[i]))
	}
	return responses, total, nil
}

// GetTree returns the tenant's nested chart of accounts
func (s *GroupService) GetTree(ctx context.Context, tenantID uuid.UUID) ([]*TreeNodeResponse, error) {
	groups, err := s.groups.FindAllLevelsForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	all := shared.DefaultFilter()
	all.PageSize = 0
	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, all)
	if err != nil {
		return nil, err
	}

	groups = keepOwned(groups, func(g accounting.Group) bool { return s.ownedBy(ctx, tenantID, g.TenantID, g.ID) })
	accounts = keepOwned(accounts, func(a accounting.Account) bool { return s.ownedBy(ctx, tenantID, a.TenantID, a.ID) })
	return toTreeResponse(accounting.BuildTree(groups, accounts)), nil
}

// findParent loads the parent a group at level must hang under
func (s *GroupService) findParent(ctx context.Context, tenantID uuid.UUID, level accounting.Level, parentID *uuid.UUID) (*accounting.Group, error) {
	parentLevel, ok := level.Parent()
	if !ok {
		return nil, shared.NewValidationError("parent_id", "A main group cannot have a parent")
	}
	if parentID == nil || *parentID == uuid.Nil {
		return nil, shared.NewValidationError(parentLevel.String()+"_group_id", "Parent group is required")
	}
	parent, err := s.groups.FindByIDForTenant(ctx, tenantID, parentLevel, *parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, accounting.NewParentNotFoundError(parentLevel, *parentID)
		}
		return nil, err
	}
	return parent, nil
}

// ownedBy re-checks a row's tenant after a tenant-filtered query. A
// mismatch means the query layer is broken, so the row is dropped loudly.
func (s *GroupService) ownedBy(ctx context.Context, tenantID, rowTenantID, rowID uuid.UUID) bool {
	return checkOwner(ctx, s.logger, tenantID, rowTenantID, rowID)
}

func checkOwner(ctx context.Context, log *zap.Logger, tenantID, rowTenantID, rowID uuid.UUID) bool {
	if rowTenantID == tenantID {
		return true
	}
	logger.WithLogger(ctx, log).Error("Dropped row owned by another tenant",
		zap.String("tenant_id", tenantID.String()),
		zap.String("row_tenant_id", rowTenantID.String()),
		zap.String("row_id", rowID.String()),
	)
	return false
}

func keepOwned[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func toDomainFilter(search string, page, pageSize int, sortBy string, sortDesc bool) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = search
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if sortBy != "" {
		f.OrderBy = sortBy
		f.OrderDir = "asc"
		if sortDesc {
			f.OrderDir = "desc"
		}
	}
	return f
}
