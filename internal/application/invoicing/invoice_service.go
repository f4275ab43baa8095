// Package invoicing holds the invoice application services.
package invoicing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	spanService = "invoice"

	// sweepBatchSize bounds how many past-due invoices one sweep loads per tenant
	sweepBatchSize = 500
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	repo     invoicing.InvoiceRepository
	events   shared.EventPublisher
	cache    invoicing.SummaryCache
	cacheTTL time.Duration
	metrics  *telemetry.LedgerMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithSummaryCache enables read-through caching of receivables summaries
func WithSummaryCache(cache invoicing.SummaryCache, ttl time.Duration) Option {
	return func(s *InvoiceService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithMetrics records transitions, payments and cache lookups
func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(s *InvoiceService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *InvoiceService) {
		s.logger = l
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo invoicing.InvoiceRepository, events shared.EventPublisher, opts ...Option) *InvoiceService {
	s := &InvoiceService{
		repo:   repo,
		events: events,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice creates a draft invoice. A number is generated when the
// request leaves it empty.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create", telemetry.AttrTenantID.String(tenantID.String()))
	defer span.End()

	number := req.InvoiceNumber
	if number == "" {
		generated, err := s.repo.GenerateInvoiceNumber(ctx, tenantID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		number = generated
	} else {
		exists, err := s.repo.ExistsByNumber(ctx, tenantID, number)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Invoice number %s already exists", number)
		}
	}

	inv, err := invoicing.NewInvoice(tenantID, number, req.CustomerName, invoicing.InvoiceAmounts{
		Subtotal:       req.Subtotal,
		TaxPercent:     req.TaxPercent,
		DiscountAmount: req.DiscountAmount,
	}, req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}
	inv.Notes = req.Notes
	if req.CreatedBy != nil {
		inv.CreatedBy = req.CreatedBy
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, &inv.TenantAggregateRoot)

	return ToInvoiceResponse(inv), nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListInvoices lists a tenant's invoices with a total count
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
		domainFilter.OrderDir = "asc"
		if filter.SortDesc {
			domainFilter.OrderDir = "desc"
		}
	}
	if filter.Status != "" {
		status, ok := invoicing.ParseStatus(filter.Status)
		if !ok {
			return nil, 0, invoicing.NewInvalidStatusError(filter.Status)
		}
		domainFilter = domainFilter.With("status", status)
	}

	invoices, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		if invoices[i].TenantID != tenantID {
			logger.WithLogger(ctx, s.logger).Error("Dropped invoice owned by another tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.String("invoice_id", invoices[i].ID.String()),
			)
			continue
		}
		responses = append(responses, *ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// ApplyTransition moves an invoice to the requested status. Illegal moves
// return INVALID_TRANSITION and leave the stored invoice untouched; a lost
// optimistic-lock race returns CONCURRENCY_CONFLICT.
func (s *InvoiceService) ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, status string) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "apply_transition",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrInvoiceID.String(id.String()),
		telemetry.AttrTargetStatus.String(status),
	)
	defer span.End()

	to, ok := invoicing.ParseStatus(status)
	if !ok {
		return nil, invoicing.NewInvalidStatusError(status)
	}

	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	from := inv.Status

	if err := inv.TransitionTo(to); err != nil {
		s.metrics.RecordRejectedTransition(ctx, tenantID, from.String(), to.String())
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordTransition(ctx, tenantID, from.String(), to.String())
	s.publish(ctx, &inv.TenantAggregateRoot)

	logger.WithLogger(ctx, s.logger).Info("Invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	return ToInvoiceResponse(inv), nil
}

// GetAllowedTransitions returns the statuses the invoice can move to
func (s *InvoiceService) GetAllowedTransitions(ctx context.Context, tenantID, id uuid.UUID) (*AllowedTransitionsResponse, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	targets := invoicing.AllowedTransitions(inv.Status)
	allowed := make([]string, len(targets))
	for i, t := range targets {
		allowed[i] = t.String()
	}
	return &AllowedTransitionsResponse{
		InvoiceID: inv.ID,
		Current:   inv.Status.String(),
		Allowed:   allowed,
	}, nil
}

// RecordPayment applies a payment and moves the invoice to paid or
// partially paid through the transition table
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "record_payment",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrInvoiceID.String(id.String()),
	)
	defer span.End()

	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	from := inv.Status

	if err := inv.RecordPayment(amount); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordPayment(ctx, tenantID)
	if inv.Status != from {
		s.metrics.RecordTransition(ctx, tenantID, from.String(), inv.Status.String())
	}
	s.publish(ctx, &inv.TenantAggregateRoot)
	return ToInvoiceResponse(inv), nil
}

// InvoiceSummary returns per-status counts and the outstanding total.
// Cache failures are logged and fall through to the database.
func (s *InvoiceService) InvoiceSummary(ctx context.Context, tenantID uuid.UUID) (*invoicing.ReceivablesSummary, error) {
	log := logger.WithLogger(ctx, s.logger)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			log.Warn("Receivables summary cache read failed", zap.Error(err))
		} else if cached != nil {
			s.metrics.RecordSummaryCache(ctx, true)
			return cached, nil
		}
		s.metrics.RecordSummaryCache(ctx, false)
	}

	rows, err := s.repo.SummarizeByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	summary := invoicing.NewReceivablesSummary(tenantID, rows, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary, s.cacheTTL); err != nil {
			log.Warn("Receivables summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// SweepOverdue moves the tenant's past-due invoices to overdue. Invoices
// changed concurrently are left for the next sweep.
func (s *InvoiceService) SweepOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "sweep_overdue", telemetry.AttrTenantID.String(tenantID.String()))
	defer span.End()
	log := logger.WithLogger(ctx, s.logger)

	candidates, err := s.repo.FindPastDue(ctx, tenantID, asOf, sweepBatchSize)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	moved := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		inv := &candidates[i]
		if inv.TenantID != tenantID || !inv.IsOverdueAt(asOf) {
			continue
		}
		from := inv.Status
		if err := inv.TransitionTo(invoicing.StatusOverdue); err != nil {
			continue
		}
		if err := s.repo.SaveWithLock(ctx, inv); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				log.Debug("Skipped invoice changed during sweep", zap.String("invoice_id", inv.ID.String()))
				continue
			}
			telemetry.RecordError(span, err)
			s.metrics.RecordOverdueSwept(ctx, tenantID, moved)
			return moved, err
		}
		moved++
		s.metrics.RecordTransition(ctx, tenantID, from.String(), invoicing.StatusOverdue.String())
		s.publish(ctx, &inv.TenantAggregateRoot)
	}

	s.metrics.RecordOverdueSwept(ctx, tenantID, moved)
	return moved, nil
}

// publish hands the aggregate's pending events to the bus. The state change
// is already committed, so publish failures are only logged.
func (s *InvoiceService) publish(ctx context.Context, agg *shared.TenantAggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to publish invoice events", zap.Error(err))
	}
}
