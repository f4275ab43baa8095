package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/cache"
	"github.com/ledgerdesk/backend/internal/infrastructure/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInvoiceService_CreateInvoice(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("generates a number when none is given", func(t *testing.T) {
		pub, rec := newRecordingBus(t)
		svc := NewInvoiceService(newTestRepo(t), pub)

		resp, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)

		assert.Regexp(t, `^INV-\d{6}-0001$`, resp.InvoiceNumber)
		assert.Equal(t, "draft", resp.Status)
		assert.True(t, decimal.NewFromInt(110).Equal(resp.TotalAmount))
		assert.True(t, resp.TotalAmount.Equal(resp.AmountDue))
		assert.Equal(t, []string{invoicing.EventTypeInvoiceCreated}, rec.HandledTypes())
	})

	t.Run("rejects a duplicate number within the tenant", func(t *testing.T) {
		svc := NewInvoiceService(newTestRepo(t), nil)
		req := newCreateRequest("Acme", 100)
		req.InvoiceNumber = "INV-1"

		_, err := svc.CreateInvoice(ctx, tenantID, req)
		require.NoError(t, err)

		_, err = svc.CreateInvoice(ctx, tenantID, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

		_, err = svc.CreateInvoice(ctx, uuid.New(), req)
		assert.NoError(t, err, "numbers are unique per tenant only")
	})

	t.Run("records the creating user", func(t *testing.T) {
		repo := newTestRepo(t)
		svc := NewInvoiceService(repo, nil)
		userID := uuid.New()
		req := newCreateRequest("Acme", 100)
		req.CreatedBy = &userID

		resp, err := svc.CreateInvoice(ctx, tenantID, req)
		require.NoError(t, err)

		stored, err := repo.FindByIDForTenant(ctx, tenantID, resp.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CreatedBy)
		assert.Equal(t, userID, *stored.CreatedBy)
	})

	t.Run("validation errors surface", func(t *testing.T) {
		svc := NewInvoiceService(newTestRepo(t), nil)
		req := newCreateRequest("", 100)

		_, err := svc.CreateInvoice(ctx, tenantID, req)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInvoiceService_ApplyTransition(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("legal transition persists and publishes", func(t *testing.T) {
		repo := newTestRepo(t)
		pub, rec := newRecordingBus(t)
		svc := NewInvoiceService(repo, pub)

		created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)

		resp, err := svc.ApplyTransition(ctx, tenantID, created.ID, "sent")
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)
		assert.NotNil(t, resp.StatusChangedAt)
		assert.Equal(t, created.Version+1, resp.Version)

		stored, err := repo.FindByIDForTenant(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, invoicing.StatusSent, stored.Status)
		assert.Contains(t, rec.HandledTypes(), invoicing.EventTypeInvoiceStatusChanged)
	})

	t.Run("unknown status is INVALID_STATUS", func(t *testing.T) {
		svc := NewInvoiceService(newTestRepo(t), nil)
		created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)

		_, err = svc.ApplyTransition(ctx, tenantID, created.ID, "archived")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, invoicing.CodeInvalidStatus, domainErr.Code)
	})

	t.Run("illegal transition leaves the invoice unchanged", func(t *testing.T) {
		repo := newTestRepo(t)
		svc := NewInvoiceService(repo, nil)
		created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)

		_, err = svc.ApplyTransition(ctx, tenantID, created.ID, "paid")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, invoicing.CodeInvalidTransition, domainErr.Code)

		stored, err := repo.FindByIDForTenant(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, invoicing.StatusDraft, stored.Status)
		assert.Equal(t, created.Version, stored.Version)
	})

	t.Run("voided invoice accepts nothing", func(t *testing.T) {
		svc := NewInvoiceService(newTestRepo(t), nil)
		created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)
		_, err = svc.ApplyTransition(ctx, tenantID, created.ID, "void")
		require.NoError(t, err)

		for _, target := range invoicing.AllStatuses() {
			_, err := svc.ApplyTransition(ctx, tenantID, created.ID, target.String())
			assert.Error(t, err, "void -> %s", target)
		}
	})

	t.Run("another tenant's invoice is not found", func(t *testing.T) {
		svc := NewInvoiceService(newTestRepo(t), nil)
		created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
		require.NoError(t, err)

		_, err = svc.ApplyTransition(ctx, uuid.New(), created.ID, "sent")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lost update surfaces as a concurrency conflict", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		pub, rec := newRecordingBus(t)
		svc := NewInvoiceService(repo, pub)

		inv, err := invoicing.NewInvoice(tenantID, "INV-9", "Acme", invoicing.InvoiceAmounts{
			Subtotal: decimal.NewFromInt(50),
		}, time.Now(), time.Now().AddDate(0, 0, 7))
		require.NoError(t, err)
		inv.ClearDomainEvents()

		repo.On("FindByIDForTenant", mock.Anything, tenantID, inv.ID).Return(inv, nil)
		repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(shared.ErrConcurrencyConflict)

		_, err = svc.ApplyTransition(ctx, tenantID, inv.ID, "sent")
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Empty(t, rec.Handled(), "nothing is published for an unsaved change")
		repo.AssertExpectations(t)
	})
}

func TestInvoiceService_GetAllowedTransitions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc := NewInvoiceService(newTestRepo(t), nil)

	created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
	require.NoError(t, err)

	resp, err := svc.GetAllowedTransitions(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Current)
	assert.Equal(t, []string{"approved", "canceled", "sent", "void"}, resp.Allowed)
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	pub, rec := newRecordingBus(t)
	svc := NewInvoiceService(newTestRepo(t), pub)

	created, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
	require.NoError(t, err)
	_, err = svc.ApplyTransition(ctx, tenantID, created.ID, "sent")
	require.NoError(t, err)

	resp, err := svc.RecordPayment(ctx, tenantID, created.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", resp.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(resp.AmountDue))

	resp, err = svc.RecordPayment(ctx, tenantID, created.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.True(t, resp.AmountDue.IsZero())

	_, err = svc.RecordPayment(ctx, tenantID, created.ID, decimal.NewFromInt(1))
	assert.Error(t, err)

	assert.Contains(t, rec.HandledTypes(), invoicing.EventTypeInvoicePaymentRecorded)
}

func TestInvoiceService_ListInvoices(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc := NewInvoiceService(newTestRepo(t), nil)

	for _, name := range []string{"Acme", "Globex", "Initech"} {
		_, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest(name, 100))
		require.NoError(t, err)
	}
	other, err := svc.CreateInvoice(ctx, uuid.New(), newCreateRequest("Acme", 100))
	require.NoError(t, err)

	all, total, err := svc.ListInvoices(ctx, tenantID, InvoiceListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, inv := range all {
		assert.NotEqual(t, other.ID, inv.ID)
	}

	found, total, err := svc.ListInvoices(ctx, tenantID, InvoiceListFilter{Search: "glob"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Globex", found[0].CustomerName)

	drafts, _, err := svc.ListInvoices(ctx, tenantID, InvoiceListFilter{Status: "draft", PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	_, _, err = svc.ListInvoices(ctx, tenantID, InvoiceListFilter{Status: "bogus"})
	assert.Error(t, err)
}

func TestInvoiceService_ListInvoicesDropsForeignRows(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo, nil, WithLogger(zap.NewNop()))

	mine, err := invoicing.NewInvoice(tenantID, "INV-1", "Acme", invoicing.InvoiceAmounts{Subtotal: decimal.NewFromInt(1)}, time.Now(), time.Time{})
	require.NoError(t, err)
	foreign, err := invoicing.NewInvoice(uuid.New(), "INV-2", "Evil", invoicing.InvoiceAmounts{Subtotal: decimal.NewFromInt(1)}, time.Now(), time.Time{})
	require.NoError(t, err)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).Return([]invoicing.Invoice{*mine, *foreign}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(2), nil)

	list, _, err := svc.ListInvoices(ctx, tenantID, InvoiceListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestInvoiceService_InvoiceSummary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	summaryCache := cache.NewInMemorySummaryCache(time.Minute)
	t.Cleanup(func() { _ = summaryCache.Close() })

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewReceivablesCacheInvalidator(summaryCache, zap.NewNop()))
	require.NoError(t, bus.Start(ctx))

	svc := NewInvoiceService(newTestRepo(t), bus, WithSummaryCache(summaryCache, time.Minute))

	first, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, tenantID, newCreateRequest("Globex", 200))
	require.NoError(t, err)

	summary, err := svc.InvoiceSummary(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.InvoiceCount)
	assert.True(t, summary.TotalOutstanding.IsZero(), "drafts are not receivable")

	_, err = svc.InvoiceSummary(ctx, tenantID)
	require.NoError(t, err)
	hits, _ := summaryCache.Stats()
	assert.Equal(t, int64(1), hits)

	_, err = svc.ApplyTransition(ctx, tenantID, first.ID, "sent")
	require.NoError(t, err)
	assert.Equal(t, 0, summaryCache.Size(), "status change evicts the cached summary")

	summary, err = svc.InvoiceSummary(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(110).Equal(summary.TotalOutstanding))
}

func TestInvoiceService_SweepOverdue(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := newTestRepo(t)
	pub, rec := newRecordingBus(t)
	svc := NewInvoiceService(repo, pub)

	sent, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Acme", 100))
	require.NoError(t, err)
	_, err = svc.ApplyTransition(ctx, tenantID, sent.ID, "sent")
	require.NoError(t, err)

	draft, err := svc.CreateInvoice(ctx, tenantID, newCreateRequest("Globex", 100))
	require.NoError(t, err)

	asOf := sent.DueDate.AddDate(0, 0, 1)
	moved, err := svc.SweepOverdue(ctx, tenantID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	types := rec.HandledTypes()
	assert.Equal(t, invoicing.EventTypeInvoiceStatusChanged, types[len(types)-1])

	stored, err := repo.FindByIDForTenant(ctx, tenantID, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatusOverdue, stored.Status)

	stillDraft, err := repo.FindByIDForTenant(ctx, tenantID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatusDraft, stillDraft.Status)

	moved, err = svc.SweepOverdue(ctx, tenantID, asOf)
	require.NoError(t, err)
	assert.Zero(t, moved, "sweeping is idempotent")
}

func TestInvoiceService_SweepOverdueSkipsConflicts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockInvoiceRepository)
	pub, rec := newRecordingBus(t)
	svc := NewInvoiceService(repo, pub)

	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newSent := func(number string) invoicing.Invoice {
		inv, err := invoicing.NewInvoice(tenantID, number, "Acme", invoicing.InvoiceAmounts{Subtotal: decimal.NewFromInt(10)}, due.AddDate(0, 0, -30), due)
		require.NoError(t, err)
		require.NoError(t, inv.TransitionTo(invoicing.StatusSent))
		inv.ClearDomainEvents()
		return *inv
	}
	a, b := newSent("INV-1"), newSent("INV-2")
	asOf := due.AddDate(0, 0, 2)

	repo.On("FindPastDue", mock.Anything, tenantID, asOf, sweepBatchSize).Return([]invoicing.Invoice{a, b}, nil)
	repo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(inv *invoicing.Invoice) bool { return inv.ID == a.ID })).Return(shared.ErrConcurrencyConflict)
	repo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(inv *invoicing.Invoice) bool { return inv.ID == b.ID })).Return(nil)

	moved, err := svc.SweepOverdue(ctx, tenantID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	types := rec.HandledTypes()
	assert.Equal(t, invoicing.EventTypeInvoiceStatusChanged, types[len(types)-1])
	repo.AssertExpectations(t)
}
