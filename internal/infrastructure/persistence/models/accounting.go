package models

import (
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// GroupModel stores the group levels of the chart of accounts in one
// table. Level is the discriminator and ParentID points one level up; main
// groups have no parent.
type GroupModel struct {
	TenantAggregateModel
	Level       accounting.Level `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID       `gorm:"type:uuid;index"`
	Name        string           `gorm:"type:varchar(200);not null"`
	Code        string           `gorm:"type:varchar(50);not null"`
	Description string           `gorm:"type:text"`
	IsActive    bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "account_groups"
}

// ToDomain converts the persistence model to a domain Group
func (m *GroupModel) ToDomain() *accounting.Group {
	return &accounting.Group{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Level:               m.Level,
		ParentID:            m.ParentID,
		Name:                m.Name,
		Code:                m.Code,
		Description:         m.Description,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Group
func (m *GroupModel) FromDomain(g *accounting.Group) {
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.Level = g.Level
	m.ParentID = g.ParentID
	m.Name = g.Name
	m.Code = g.Code
	m.Description = g.Description
	m.IsActive = g.IsActive
}

// GroupModelFromDomain creates a new persistence model from a domain Group
func GroupModelFromDomain(g *accounting.Group) *GroupModel {
	m := &GroupModel{}
	m.FromDomain(g)
	return m
}

// AccountModel is the persistence model for a leaf account
type AccountModel struct {
	TenantAggregateModel
	DetailedGroupID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountName     string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	IsActive        bool            `gorm:"not null;default:true"`
	IsSystemAccount bool            `gorm:"not null;default:false"`
	OpeningBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *accounting.Account {
	return &accounting.Account{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DetailedGroupID:     m.DetailedGroupID,
		AccountName:         m.AccountName,
		Description:         m.Description,
		IsActive:            m.IsActive,
		IsSystemAccount:     m.IsSystemAccount,
		OpeningBalance:      m.OpeningBalance,
		CurrentBalance:      m.CurrentBalance,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *accounting.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.DetailedGroupID = a.DetailedGroupID
	m.AccountName = a.AccountName
	m.Description = a.Description
	m.IsActive = a.IsActive
	m.IsSystemAccount = a.IsSystemAccount
	m.OpeningBalance = a.OpeningBalance
	m.CurrentBalance = a.CurrentBalance
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *accounting.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
