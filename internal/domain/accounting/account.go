package accounting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const maxAccountNameLength = 200

// Account is a leaf of the chart of accounts, attached to a detailed group
type Account struct {
	shared.TenantAggregateRoot
	DetailedGroupID uuid.UUID
	AccountName     string
	Description     string
	IsActive        bool
	IsSystemAccount bool
	OpeningBalance  decimal.Decimal
	CurrentBalance  decimal.Decimal
}

// NewAccount creates an account under a detailed group of the same tenant.
// The current balance starts equal to the opening balance.
func NewAccount(tenantID uuid.UUID, group *Group, name, description string, openingBalance decimal.Decimal) (*Account, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if group == nil {
		return nil, NewParentNotFoundError(LevelDetailed, uuid.Nil)
	}
	if group.Level != LevelDetailed || !group.BelongsTo(tenantID) {
		return nil, NewParentNotFoundError(LevelDetailed, group.ID)
	}
	name, err := normalizeAccountName(name)
	if err != nil {
		return nil, err
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DetailedGroupID:     group.ID,
		AccountName:         name,
		Description:         strings.TrimSpace(description),
		IsActive:            true,
		OpeningBalance:      openingBalance,
		CurrentBalance:      openingBalance,
	}, nil
}

// MarkSystem flags the account as required by the platform
func (a *Account) MarkSystem() {
	a.IsSystemAccount = true
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	name, err := normalizeAccountName(name)
	if err != nil {
		return err
	}
	a.AccountName = name
	a.touch()
	return nil
}

// SetDescription replaces the description
func (a *Account) SetDescription(description string) {
	a.Description = strings.TrimSpace(description)
	a.touch()
}

// SetActive toggles the active flag. System accounts stay active.
func (a *Account) SetActive(active bool) error {
	if !active && a.IsSystemAccount {
		return NewSystemAccountProtectedError(a.AccountName)
	}
	if a.IsActive == active {
		return nil
	}
	a.IsActive = active
	a.touch()
	return nil
}

// AdjustOpeningBalance sets a new opening balance and shifts the current
// balance by the same delta so posted movements are preserved.
func (a *Account) AdjustOpeningBalance(opening decimal.Decimal) {
	delta := opening.Sub(a.OpeningBalance)
	if delta.IsZero() {
		return
	}
	a.OpeningBalance = opening
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.touch()
}

// MoveTo reattaches the account to another detailed group of its tenant
func (a *Account) MoveTo(group *Group) error {
	if group == nil || group.Level != LevelDetailed || !group.BelongsTo(a.TenantID) {
		id := uuid.Nil
		if group != nil {
			id = group.ID
		}
		return NewParentNotFoundError(LevelDetailed, id)
	}
	if a.DetailedGroupID == group.ID {
		return nil
	}
	a.DetailedGroupID = group.ID
	a.touch()
	return nil
}

// CanDelete returns SYSTEM_ACCOUNT_PROTECTED for system accounts
func (a *Account) CanDelete() error {
	if a.IsSystemAccount {
		return NewSystemAccountProtectedError(a.AccountName)
	}
	return nil
}

func (a *Account) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func normalizeAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("account_name", "Account name cannot be empty")
	}
	if len(name) > maxAccountNameLength {
		return "", shared.NewValidationError("account_name", "Account name cannot exceed 200 characters")
	}
	return name, nil
}
