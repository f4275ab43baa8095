package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// receivableStatuses are the states in which an invoice is owed by the customer
var receivableStatuses = map[InvoiceStatus]bool{
	StatusSent:          true,
	StatusApproved:      true,
	StatusPartiallyPaid: true,
	StatusOverdue:       true,
}

// IsReceivable reports whether the status counts towards outstanding receivables
func (s InvoiceStatus) IsReceivable() bool {
	return receivableStatuses[s]
}

// ReceivablesSummary is a tenant's invoice rollup
type ReceivablesSummary struct {
	TenantID         uuid.UUID       `json:"tenant_id"`
	ByStatus         []StatusSummary `json:"by_status"`
	InvoiceCount     int64           `json:"invoice_count"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// NewReceivablesSummary folds per-status rows into a summary. Every status
// is present in the result, with zero values when the tenant has none.
func NewReceivablesSummary(tenantID uuid.UUID, rows []StatusSummary, at time.Time) *ReceivablesSummary {
	byStatus := make(map[InvoiceStatus]StatusSummary, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	summary := &ReceivablesSummary{
		TenantID:         tenantID,
		TotalOutstanding: decimal.Zero,
		TotalOverdue:     decimal.Zero,
		GeneratedAt:      at,
	}
	for _, status := range AllStatuses() {
		row, ok := byStatus[status]
		if !ok {
			row = StatusSummary{Status: status, TotalAmount: decimal.Zero, AmountDue: decimal.Zero}
		}
		summary.ByStatus = append(summary.ByStatus, row)
		summary.InvoiceCount += row.Count
		if status.IsReceivable() {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(row.AmountDue)
		}
		if status == StatusOverdue {
			summary.TotalOverdue = row.AmountDue
		}
	}
	return summary
}

// SummaryCache stores computed receivables summaries per tenant. A miss is
// reported as (nil, nil).
type SummaryCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*ReceivablesSummary, error)
	Set(ctx context.Context, summary *ReceivablesSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}
