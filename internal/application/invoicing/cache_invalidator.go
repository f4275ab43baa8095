package invoicing

import (
	"context"

	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceivablesCacheInvalidator evicts a tenant's cached summary whenever one
// of its invoices changes
type ReceivablesCacheInvalidator struct {
	cache  invoicing.SummaryCache
	logger *zap.Logger
}

// NewReceivablesCacheInvalidator creates the invalidation handler
func NewReceivablesCacheInvalidator(cache invoicing.SummaryCache, logger *zap.Logger) *ReceivablesCacheInvalidator {
	return &ReceivablesCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *ReceivablesCacheInvalidator) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoiceStatusChanged,
		invoicing.EventTypeInvoicePaymentRecorded,
	}
}

// Handle implements shared.EventHandler
func (h *ReceivablesCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.TenantID()); err != nil {
		return err
	}
	h.logger.Debug("Receivables summary invalidated",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

var _ shared.EventHandler = (*ReceivablesCacheInvalidator)(nil)
