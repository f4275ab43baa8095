package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	InvoiceNumber  string          `json:"invoice_number" binding:"omitempty,max=50"`
	CustomerName   string          `json:"customer_name" binding:"required,min=1,max=200"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	IssueDate      time.Time       `json:"issue_date" binding:"required"`
	DueDate        time.Time       `json:"due_date"`
	Notes          string          `json:"notes" binding:"max=2000"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// TransitionRequest asks for a status change
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// RecordPaymentRequest applies a payment to an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceListFilter narrows an invoice listing
type InvoiceListFilter struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by"`
	SortDesc bool   `form:"sort_desc"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	IssueDate       time.Time       `json:"issue_date"`
	DueDate         time.Time       `json:"due_date"`
	StatusChangedAt *time.Time      `json:"status_changed_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// AllowedTransitionsResponse lists the statuses reachable from the current one
type AllowedTransitionsResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Current   string    `json:"current"`
	Allowed   []string  `json:"allowed"`
}

// ToInvoiceResponse converts a domain invoice to its response form
func ToInvoiceResponse(inv *invoicing.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		Status:          inv.Status.String(),
		Subtotal:        inv.Subtotal,
		TaxPercent:      inv.TaxPercent,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		TotalAmount:     inv.TotalAmount,
		AmountPaid:      inv.AmountPaid,
		AmountDue:       inv.AmountDue,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		StatusChangedAt: inv.StatusChangedAt,
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}
