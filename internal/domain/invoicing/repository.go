package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusSummary is the per-status rollup of a tenant's invoices
type StatusSummary struct {
	Status      InvoiceStatus   `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountDue   decimal.Decimal `json:"amount_due"`
}

// InvoiceRepository defines persistence for invoices. Every method is
// tenant scoped.
type InvoiceRepository interface {
	shared.TenantRepository[Invoice]

	// FindByNumber finds an invoice by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// ExistsByNumber checks whether the number is already used in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// SaveWithLock updates an existing invoice only if its stored version is
	// one behind the in-memory version, otherwise CONCURRENCY_CONFLICT.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// GenerateInvoiceNumber returns the next free number for the tenant
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// SummarizeByStatus aggregates counts and amounts per status
	SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusSummary, error)

	// FindPastDue returns receivable invoices whose due date is before asOf
	// and that can still move to overdue
	FindPastDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, limit int) ([]Invoice, error)

	// ListTenantIDs returns every tenant that owns at least one invoice
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
