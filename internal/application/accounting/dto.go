package accounting

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// CreateGroupRequest creates a group at any level. ParentID is required for
// every level below main and must name a group one level up.
type CreateGroupRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"-"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateGroupRequest patches a group; nil fields are left unchanged
type UpdateGroupRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Code        *string    `json:"code" binding:"omitempty,min=1,max=50"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool      `json:"is_active"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// GroupListFilter narrows a group listing
type GroupListFilter struct {
	ParentID *uuid.UUID
	Search   string
	IsActive *bool
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// CreateAccountRequest creates an account under a detailed group
type CreateAccountRequest struct {
	DetailedGroupID uuid.UUID       `json:"detailed_group_id" binding:"required"`
	AccountName     string          `json:"account_name" binding:"required,min=1,max=200"`
	Description     string          `json:"description" binding:"max=2000"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	IsSystemAccount bool            `json:"is_system_account"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// UnmarshalJSON accepts the camelCase keys (detailedGroupId, accountName,
// openingBalance, isSystemAccount) next to the snake_case ones
func (r *CreateAccountRequest) UnmarshalJSON(data []byte) error {
	type plain CreateAccountRequest
	var wire struct {
		plain
		DetailedGroupIDCamel *uuid.UUID       `json:"detailedGroupId"`
		AccountNameCamel     string           `json:"accountName"`
		OpeningBalanceCamel  *decimal.Decimal `json:"openingBalance"`
		IsSystemAccountCamel *bool            `json:"isSystemAccount"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = CreateAccountRequest(wire.plain)
	if r.DetailedGroupID == uuid.Nil && wire.DetailedGroupIDCamel != nil {
		r.DetailedGroupID = *wire.DetailedGroupIDCamel
	}
	if r.AccountName == "" {
		r.AccountName = wire.AccountNameCamel
	}
	if r.OpeningBalance.IsZero() && wire.OpeningBalanceCamel != nil {
		r.OpeningBalance = *wire.OpeningBalanceCamel
	}
	if !r.IsSystemAccount && wire.IsSystemAccountCamel != nil {
		r.IsSystemAccount = *wire.IsSystemAccountCamel
	}
	return nil
}

// UpdateAccountRequest patches an account; nil fields are left unchanged
type UpdateAccountRequest struct {
	AccountName     *string          `json:"account_name" binding:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" binding:"omitempty,max=2000"`
	IsActive        *bool            `json:"is_active"`
	DetailedGroupID *uuid.UUID       `json:"detailed_group_id"`
	OpeningBalance  *decimal.Decimal `json:"opening_balance"`
}

// AccountListFilter narrows an account listing
type AccountListFilter struct {
	DetailedGroupID *uuid.UUID
	Search          string
	IsActive        *bool
	Page            int
	PageSize        int
	SortBy          string
	SortDesc        bool
}

// GroupResponse is a group in API responses. The typed parent field that
// matches the group's level is set alongside parent_id.
type GroupResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	Level             string     `json:"level"`
	ParentID          *uuid.UUID `json:"parent_id,omitempty"`
	MainGroupID       *uuid.UUID `json:"main_group_id,omitempty"`
	ElementGroupID    *uuid.UUID `json:"element_group_id,omitempty"`
	SubElementGroupID *uuid.UUID `json:"sub_element_group_id,omitempty"`
	Name              string     `json:"name"`
	Code              string     `json:"code"`
	Description       string     `json:"description,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Version           int        `json:"version"`
}

// AccountResponse is an account in API responses
type AccountResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	DetailedGroupID uuid.UUID       `json:"detailed_group_id"`
	AccountName     string          `json:"account_name"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"is_active"`
	IsSystemAccount bool            `json:"is_system_account"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// TreeNodeResponse is one group of the nested chart of accounts
type TreeNodeResponse struct {
	GroupResponse
	Children []*TreeNodeResponse `json:"children,omitempty"`
	Accounts []AccountResponse   `json:"accounts,omitempty"`
}

// ToGroupResponse converts a domain group to its response form
func ToGroupResponse(g *accounting.Group) *GroupResponse {
	resp := &GroupResponse{
		ID:          g.ID,
		TenantID:    g.TenantID,
		Level:       g.Level.String(),
		ParentID:    g.ParentID,
		Name:        g.Name,
		Code:        g.Code,
		Description: g.Description,
		IsActive:    g.IsActive,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Version:     g.Version,
	}
	switch g.Level {
	case accounting.LevelElement:
		resp.MainGroupID = g.ParentID
	case accounting.LevelSubElement:
		resp.ElementGroupID = g.ParentID
	case accounting.LevelDetailed:
		resp.SubElementGroupID = g.ParentID
	}
	return resp
}

// ToAccountResponse converts a domain account to its response form
func ToAccountResponse(a *accounting.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		DetailedGroupID: a.DetailedGroupID,
		AccountName:     a.AccountName,
		Description:     a.Description,
		IsActive:        a.IsActive,
		IsSystemAccount: a.IsSystemAccount,
		OpeningBalance:  a.OpeningBalance,
		CurrentBalance:  a.CurrentBalance,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Version:         a.Version,
	}
}

func toTreeResponse(nodes []*accounting.TreeNode) []*TreeNodeResponse {
	out := make([]*TreeNodeResponse, len(nodes))
	for i, n := range nodes {
		node := &TreeNodeResponse{
			GroupResponse: *ToGroupResponse(&n.Group),
			Children:      toTreeResponse(n.Children),
		}
		for j := range n.Accounts {
			node.Accounts = append(node.Accounts, *ToAccountResponse(&n.Accounts[j]))
		}
		out[i] = node
	}
	return out
}
