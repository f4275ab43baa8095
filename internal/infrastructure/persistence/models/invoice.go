package models

import (
	"time"

	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// (tenant_id, invoice_number) is unique; the constraint lives in the migration.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber   string                  `gorm:"type:varchar(50);not null;index"`
	CustomerName    string                  `gorm:"type:varchar(200);not null"`
	Status          invoicing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent      decimal.Decimal         `gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	AmountDue       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	IssueDate       time.Time               `gorm:"not null"`
	DueDate         time.Time               `gorm:"not null;index"`
	StatusChangedAt *time.Time
	Notes           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		CustomerName:        m.CustomerName,
		Status:              m.Status,
		Subtotal:            m.Subtotal,
		TaxPercent:          m.TaxPercent,
		TaxAmount:           m.TaxAmount,
		DiscountAmount:      m.DiscountAmount,
		TotalAmount:         m.TotalAmount,
		AmountPaid:          m.AmountPaid,
		AmountDue:           m.AmountDue,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		StatusChangedAt:     m.StatusChangedAt,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerName = inv.CustomerName
	m.Status = inv.Status
	m.Subtotal = inv.Subtotal
	m.TaxPercent = inv.TaxPercent
	m.TaxAmount = inv.TaxAmount
	m.DiscountAmount = inv.DiscountAmount
	m.TotalAmount = inv.TotalAmount
	m.AmountPaid = inv.AmountPaid
	m.AmountDue = inv.AmountDue
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.StatusChangedAt = inv.StatusChangedAt
	m.Notes = inv.Notes
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
