package accounting

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	csvimport "github.com/ledgerdesk/backend/internal/infrastructure/import"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AccountService manages leaf accounts of the chart of accounts
type AccountService struct {
	accounts accounting.AccountRepository
	groups   accounting.GroupRepository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts accounting.AccountRepository, groups accounting.GroupRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, groups: groups, logger: logger}
}

// CreateAccount creates an account under a detailed group of the tenant
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "chart_of_accounts", "create_account",
		telemetry.AttrTenantID.String(tenantID.String()),
	)
	defer span.End()

	group, err := s.findDetailedGroup(ctx, tenantID, req.DetailedGroupID)
	if err != nil {
		return nil, err
	}

	account, err := accounting.NewAccount(tenantID, group, req.AccountName, req.Description, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if req.IsSystemAccount {
		account.MarkSystem()
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// UpdateAccount applies a patch to an account. A new opening balance moves
// the current balance by the same delta.
func (s *AccountService) UpdateAccount(ctx context.Context, tenantID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.AccountName != nil {
		if err := account.Rename(*req.AccountName); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		account.SetDescription(*req.Description)
	}
	if req.IsActive != nil {
		if err := account.SetActive(*req.IsActive); err != nil {
			return nil, err
		}
	}
	if req.DetailedGroupID != nil {
		group, err := s.findDetailedGroup(ctx, tenantID, *req.DetailedGroupID)
		if err != nil {
			return nil, err
		}
		if err := account.MoveTo(group); err != nil {
			return nil, err
		}
	}
	if req.OpeningBalance != nil {
		account.AdjustOpeningBalance(*req.OpeningBalance)
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// DeleteAccount removes an account. System accounts cannot be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := account.CanDelete(); err != nil {
		return err
	}
	if err := s.accounts.DeleteForTenant(ctx, tenantID, account.ID); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Account deleted", zap.String("account_id", account.ID.String()))
	return nil
}

// ListAccounts lists a tenant's accounts with a total count
func (s *AccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortDesc)
	if filter.DetailedGroupID != nil {
		domainFilter = domainFilter.With("detailed_group_id", *filter.DetailedGroupID)
	}
	if filter.IsActive != nil {
		domainFilter = domainFilter.With("is_active", *filter.IsActive)
	}

	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accounts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		if !checkOwner(ctx, s.logger, tenantID, accounts[i].TenantID, accounts[i].ID) {
			continue
		}
		responses = append(responses, *ToAccountResponse(&accounts[i]))
	}
	return responses, total, nil
}

// ExportAccountsCSV writes every account of the tenant in the import file
// format, with the group names above each account.
func (s *AccountService) ExportAccountsCSV(ctx context.Context, tenantID uuid.UUID, w io.Writer) (int, error) {
	groups, err := s.groups.FindAllLevelsForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	all := shared.DefaultFilter()
	all.PageSize = 0
	all.OrderBy = "account_name"
	all.OrderDir = "asc"
	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, all)
	if err != nil {
		return 0, err
	}

	byID := make(map[uuid.UUID]*accounting.Group, len(groups))
	for i := range groups {
		if groups[i].TenantID == tenantID {
			byID[groups[i].ID] = &groups[i]
		}
	}
	parentOf := func(g *accounting.Group) *accounting.Group {
		if g == nil || g.ParentID == nil {
			return nil
		}
		return byID[*g.ParentID]
	}

	rows := make([]csvimport.ExportRow, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if !checkOwner(ctx, s.logger, tenantID, a.TenantID, a.ID) {
			continue
		}
		detailed := byID[a.DetailedGroupID]
		sub := parentOf(detailed)
		element := parentOf(sub)
		if element == nil {
			logger.WithLogger(ctx, s.logger).Warn("Skipped account with incomplete group path",
				zap.String("account_id", a.ID.String()))
			continue
		}
		rows = append(rows, csvimport.ExportRow{
			AccountName:     a.AccountName,
			ElementGroup:    element.Name,
			SubElementGroup: sub.Name,
			DetailedGroup:   detailed.Name,
			Description:     a.Description,
			OpeningBalance:  a.OpeningBalance,
		})
	}

	if err := csvimport.WriteAccountFile(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *AccountService) findDetailedGroup(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Group, error) {
	if id == uuid.Nil {
		return nil, shared.NewValidationError("detailed_group_id", "Detailed group is required")
	}
	group, err := s.groups.FindByIDForTenant(ctx, tenantID, accounting.LevelDetailed, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, accounting.NewParentNotFoundError(accounting.LevelDetailed, id)
		}
		return nil, err
	}
	return group, nil
}

// ParseLevelSegment maps a route segment such as "element-groups" to a level
func ParseLevelSegment(segment string) (accounting.Level, bool) {
	switch strings.ToLower(segment) {
	case "main-groups":
		return accounting.LevelMain, true
	case "element-groups":
		return accounting.LevelElement, true
	case "sub-element-groups":
		return accounting.LevelSubElement, true
	case "detailed-groups":
		return accounting.LevelDetailed, true
	}
	return "", false
}
