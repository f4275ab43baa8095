package accounting

import (
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// Error codes raised by the chart-of-accounts domain
const (
	CodeParentNotFound         = "PARENT_NOT_FOUND"
	CodeHasChildren            = "HAS_CHILDREN"
	CodeSystemAccountProtected = "SYSTEM_ACCOUNT_PROTECTED"
	CodeDuplicateCode          = "DUPLICATE_CODE"
	CodeUnresolvedGroup        = "UNRESOLVED_GROUP"
	CodeAmbiguousGroup         = "AMBIGUOUS_GROUP"
	CodeInvalidLevel           = "INVALID_LEVEL"
)

// Sentinels for errors.Is checks; constructors below add context.
var (
	ErrParentNotFound         = shared.NewDomainError(CodeParentNotFound, "Parent group not found")
	ErrHasChildren            = shared.NewDomainError(CodeHasChildren, "Node has dependent children")
	ErrSystemAccountProtected = shared.NewDomainError(CodeSystemAccountProtected, "System accounts cannot be deleted")
	ErrDuplicateCode          = shared.NewDomainError(CodeDuplicateCode, "Code already exists")
	ErrUnresolvedGroup        = shared.NewDomainError(CodeUnresolvedGroup, "Group could not be resolved")
)

// NewParentNotFoundError reports a parent id that does not resolve within
// the tenant at the expected level.
func NewParentNotFoundError(level Level, id uuid.UUID) *shared.DomainError {
	return shared.NewDomainErrorf(CodeParentNotFound, "Parent %s %s not found", level.DisplayName(), id).
		WithDetail("level", level.String()).
		WithDetail("id", id.String())
}

// NewHasChildrenError reports a delete blocked by dependents
func NewHasChildrenError(level Level, count int64) *shared.DomainError {
	return shared.NewDomainErrorf(CodeHasChildren, "Cannot delete %s: it still has %d dependent record(s)", level.DisplayName(), count).
		WithDetail("level", level.String())
}

// NewDependentsExistError reports a delete rejected by the database because
// a dependent row was written after the children were counted.
func NewDependentsExistError(level Level) *shared.DomainError {
	return shared.NewDomainErrorf(CodeHasChildren, "Cannot delete %s: it still has dependent records", level.DisplayName()).
		WithDetail("level", level.String())
}

// NewSystemAccountProtectedError reports an attempt to remove or disable a
// system account.
func NewSystemAccountProtectedError(name string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeSystemAccountProtected, "Account %q is a system account and cannot be removed or deactivated", name)
}

// NewDuplicateCodeError reports a code already used at the level
func NewDuplicateCodeError(level Level, code string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeDuplicateCode, "A %s with code %q already exists", level.DisplayName(), code).
		WithDetail("level", level.String()).
		WithDetail("code", code)
}

// NewUnresolvedGroupError reports a group name with no exact match
func NewUnresolvedGroupError(level Level, name string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeUnresolvedGroup, "%s %q not found", level.DisplayName(), name).
		WithDetail("level", level.String()).
		WithDetail("name", name)
}

// NewAmbiguousGroupError reports a group path matching more than one group
func NewAmbiguousGroupError(level Level, name string, matches int) *shared.DomainError {
	return shared.NewDomainErrorf(CodeAmbiguousGroup, "%s %q matches %d groups", level.DisplayName(), name, matches).
		WithDetail("level", level.String()).
		WithDetail("name", name)
}

// NewInvalidLevelError reports an unknown group level
func NewInvalidLevelError(raw string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeInvalidLevel, "Unknown chart-of-accounts level %q", raw)
}
