package accounting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
)

const (
	maxGroupCodeLength = 50
	maxGroupNameLength = 200
)

// Group is one node of the four-level classification tree. Level is the
// discriminator: a main group has no parent, every other level has exactly
// one parent at the level directly above it, owned by the same tenant.
type Group struct {
	shared.TenantAggregateRoot
	Level       Level
	ParentID    *uuid.UUID
	Name        string
	Code        string
	Description string
	IsActive    bool
}

// NewMainGroup creates a root group
func NewMainGroup(tenantID uuid.UUID, name, code string) (*Group, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	name, code, err := normalizeNameCode(name, code)
	if err != nil {
		return nil, err
	}
	return &Group{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Level:               LevelMain,
		Name:                name,
		Code:                code,
		IsActive:            true,
	}, nil
}

// NewChildGroup creates a group beneath parent. The parent must sit at the
// level directly above and belong to the same tenant; anything else is
// reported as PARENT_NOT_FOUND so other tenants' ids are indistinguishable
// from ids that do not exist.
func NewChildGroup(tenantID uuid.UUID, level Level, name, code string, parent *Group) (*Group, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	parentLevel, ok := level.Parent()
	if !ok {
		return nil, NewInvalidLevelError(level.String())
	}
	if parent == nil {
		return nil, NewParentNotFoundError(parentLevel, uuid.Nil)
	}
	if parent.Level != parentLevel || !parent.BelongsTo(tenantID) {
		return nil, NewParentNotFoundError(parentLevel, parent.ID)
	}
	name, code, err := normalizeNameCode(name, code)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	return &Group{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Level:               level,
		ParentID:            &parentID,
		Name:                name,
		Code:                code,
		IsActive:            true,
	}, nil
}

// Rename updates the display fields of the group
func (g *Group) Rename(name, code string) error {
	name, code, err := normalizeNameCode(name, code)
	if err != nil {
		return err
	}
	g.Name = name
	g.Code = code
	g.touch()
	return nil
}

// SetDescription replaces the free-text description
func (g *Group) SetDescription(description string) {
	g.Description = strings.TrimSpace(description)
	g.touch()
}

// SetActive toggles the active flag
func (g *Group) SetActive(active bool) {
	if g.IsActive == active {
		return
	}
	g.IsActive = active
	g.touch()
}

// MoveTo re-parents the group, applying the same checks as creation
func (g *Group) MoveTo(parent *Group) error {
	parentLevel, ok := g.Level.Parent()
	if !ok {
		return shared.NewValidationError("parent_id", "A main group cannot have a parent")
	}
	if parent == nil || parent.Level != parentLevel || !parent.BelongsTo(g.TenantID) {
		id := uuid.Nil
		if parent != nil {
			id = parent.ID
		}
		return NewParentNotFoundError(parentLevel, id)
	}
	if g.ParentID != nil && *g.ParentID == parent.ID {
		return nil
	}
	parentID := parent.ID
	g.ParentID = &parentID
	g.touch()
	return nil
}

// IsRoot reports whether the group is a main group
func (g *Group) IsRoot() bool {
	return g.Level == LevelMain
}

func (g *Group) touch() {
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

func normalizeNameCode(name, code string) (string, string, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" {
		return "", "", shared.NewValidationError("name", "Name cannot be empty")
	}
	if len(name) > maxGroupNameLength {
		return "", "", shared.NewValidationError("name", "Name cannot exceed 200 characters")
	}
	if code == "" {
		return "", "", shared.NewValidationError("code", "Code cannot be empty")
	}
	if len(code) > maxGroupCodeLength {
		return "", "", shared.NewValidationError("code", "Code cannot exceed 50 characters")
	}
	return name, code, nil
}
