package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name used in events
const AggregateTypeInvoice = "Invoice"

var hundred = decimal.NewFromInt(100)

// Invoice is the invoice aggregate root. Its status only changes through
// TransitionTo and RecordPayment, both of which consult the transition table.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string
	CustomerName    string
	Status          InvoiceStatus
	Subtotal        decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	AmountPaid      decimal.Decimal
	AmountDue       decimal.Decimal
	IssueDate       time.Time
	DueDate         time.Time
	StatusChangedAt *time.Time
	Notes           string
}

// InvoiceAmounts are the caller-supplied monetary inputs of an invoice
type InvoiceAmounts struct {
	Subtotal       decimal.Decimal
	TaxPercent     decimal.Decimal
	DiscountAmount decimal.Decimal
}

// NewInvoice creates a draft invoice and derives its totals
func NewInvoice(tenantID uuid.UUID, number, customerName string, amounts InvoiceAmounts, issueDate, dueDate time.Time) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewValidationError("invoice_number", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("invoice_number", "Invoice number cannot exceed 50 characters")
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, shared.NewValidationError("customer_name", "Customer name cannot be empty")
	}
	if issueDate.IsZero() {
		return nil, shared.NewValidationError("issue_date", "Issue date is required")
	}
	if dueDate.IsZero() {
		dueDate = issueDate
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewValidationError("due_date", "Due date cannot be before issue date")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       number,
		CustomerName:        customerName,
		Status:              StatusDraft,
		AmountPaid:          decimal.Zero,
		IssueDate:           issueDate,
		DueDate:             dueDate,
	}
	if err := inv.setAmounts(amounts); err != nil {
		return nil, err
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

func (i *Invoice) setAmounts(a InvoiceAmounts) error {
	if a.Subtotal.IsNegative() {
		return shared.NewValidationError("subtotal", "Subtotal cannot be negative")
	}
	if a.TaxPercent.IsNegative() || a.TaxPercent.GreaterThan(hundred) {
		return shared.NewValidationError("tax_percent", "Tax percent must be between 0 and 100")
	}
	if a.DiscountAmount.IsNegative() {
		return shared.NewValidationError("discount_amount", "Discount cannot be negative")
	}

	tax := a.Subtotal.Mul(a.TaxPercent).Div(hundred).Round(2)
	total := a.Subtotal.Add(tax).Sub(a.DiscountAmount)
	if total.IsNegative() {
		return shared.NewValidationError("discount_amount", "Discount cannot exceed subtotal plus tax")
	}

	i.Subtotal = a.Subtotal
	i.TaxPercent = a.TaxPercent
	i.TaxAmount = tax
	i.DiscountAmount = a.DiscountAmount
	i.TotalAmount = total
	i.AmountDue = total.Sub(i.AmountPaid)
	return nil
}

// CanTransitionTo reports whether the invoice may move to the given status
func (i *Invoice) CanTransitionTo(to InvoiceStatus) bool {
	return CanTransition(i.Status, to)
}

// TransitionTo moves the invoice to a new status. An illegal target leaves
// the invoice untouched and returns an INVALID_TRANSITION error.
func (i *Invoice) TransitionTo(to InvoiceStatus) error {
	if !to.IsValid() {
		return NewInvalidStatusError(string(to))
	}
	if !CanTransition(i.Status, to) {
		return NewInvalidTransitionError(i.Status, to)
	}

	from := i.Status
	now := time.Now()
	i.Status = to
	i.StatusChangedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, to))
	return nil
}

// RecordPayment applies a payment against the amount due. The invoice
// becomes paid when nothing is left owing, otherwise partially paid; a
// further partial payment on a partially paid invoice only moves amounts.
func (i *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !i.Status.AllowsPayment() {
		return NewInvalidTransitionError(i.Status, StatusPaid)
	}
	if !amount.IsPositive() {
		return shared.NewDomainError(CodeInvalidAmount, "Payment amount must be positive")
	}
	if amount.GreaterThan(i.AmountDue) {
		return shared.NewDomainErrorf(CodeInvalidAmount, "Payment amount %s exceeds amount due %s",
			amount.StringFixed(2), i.AmountDue.StringFixed(2))
	}

	target := StatusPartiallyPaid
	if amount.Equal(i.AmountDue) {
		target = StatusPaid
	}
	if target != i.Status && !CanTransition(i.Status, target) {
		return NewInvalidTransitionError(i.Status, target)
	}

	from := i.Status
	now := time.Now()
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.AmountDue = i.TotalAmount.Sub(i.AmountPaid)
	i.UpdatedAt = now
	if target != from {
		i.Status = target
		i.StatusChangedAt = &now
		i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, target))
	}
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, amount))
	return nil
}

// IsOverdueAt reports whether the invoice is past due at the given time
// and still has money owing.
func (i *Invoice) IsOverdueAt(t time.Time) bool {
	return i.AmountDue.IsPositive() && t.After(i.DueDate) && CanTransition(i.Status, StatusOverdue)
}
