package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/backend/tests/testutil"
)

func TestGormInvoiceRepository_FindByIDForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantA, tenantB := uuid.New(), uuid.New()
	inv := newPersistedInvoice(t, repo, tenantA, "INV-1", "Acme", 100)

	t.Run("finds within owning tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantA, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-1", found.InvoiceNumber)
		assert.Equal(t, invoicing.StatusDraft, found.Status)
		assert.True(t, decimal.NewFromInt(110).Equal(found.TotalAmount))
		assert.Equal(t, 1, found.Version)
	})

	t.Run("other tenant gets not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantB, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by number is tenant scoped", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, tenantA, "INV-1")
		require.NoError(t, err)
		_, err = repo.FindByNumber(ctx, tenantB, "INV-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("persists a legal transition", func(t *testing.T) {
		inv := newPersistedInvoice(t, repo, tenantID, "INV-LOCK-1", "Acme", 100)
		require.NoError(t, inv.TransitionTo(invoicing.StatusSent))
		require.NoError(t, repo.SaveWithLock(ctx, inv))

		found, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoicing.StatusSent, found.Status)
		assert.Equal(t, 2, found.Version)
		assert.NotNil(t, found.StatusChangedAt)
	})

	t.Run("stale copy gets concurrency conflict", func(t *testing.T) {
		inv := newPersistedInvoice(t, repo, tenantID, "INV-LOCK-2", "Acme", 100)

		first, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
		require.NoError(t, err)

		require.NoError(t, first.TransitionTo(invoicing.StatusApproved))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.TransitionTo(invoicing.StatusCanceled))
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		stored, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoicing.StatusApproved, stored.Status)
	})
}

func TestGormInvoiceRepository_SaveWithLock_ConditionalUpdate(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	mock := mockDB.Mock
	repo := NewGormInvoiceRepository(mockDB.DB)

	tenantID := uuid.New()
	issue := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, "INV-9", "Acme", invoicing.InvoiceAmounts{
		Subtotal: decimal.NewFromInt(100),
	}, issue, issue)
	require.NoError(t, err)
	require.NoError(t, inv.TransitionTo(invoicing.StatusSent))

	// The version read succeeds but another writer commits before the
	// conditional update runs.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "version" FROM "invoices" WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(tenantID.String(), inv.ID.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectExec(`UPDATE "invoices" SET .+ WHERE tenant_id = \$\d+ AND id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.SaveWithLock(context.Background(), inv)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	mockDB.ExpectationsWereMet(t)
}

func TestGormInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = func() time.Time { return time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	tenantID := uuid.New()

	number, err := repo.GenerateInvoiceNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "INV-202504-0001", number)

	newPersistedInvoice(t, repo, tenantID, number, "Acme", 10)
	// A manually chosen number occupying the next slot is skipped.
	newPersistedInvoice(t, repo, tenantID, "INV-202504-0003", "Acme", 10)

	number, err = repo.GenerateInvoiceNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "INV-202504-0004", number)

	other, err := repo.GenerateInvoiceNumber(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "INV-202504-0001", other)
}

func TestGormInvoiceRepository_ListAndSummarize(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID, otherTenant := uuid.New(), uuid.New()
	newPersistedInvoice(t, repo, tenantID, "INV-A", "Acme Ltd", 100)
	newPersistedInvoice(t, repo, tenantID, "INV-B", "Globex", 200)
	sent := newPersistedInvoice(t, repo, tenantID, "INV-C", "Acme Ltd", 300)
	require.NoError(t, sent.TransitionTo(invoicing.StatusSent))
	require.NoError(t, repo.SaveWithLock(ctx, sent))
	newPersistedInvoice(t, repo, otherTenant, "INV-A", "Acme Ltd", 999)

	t.Run("search matches number or customer case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "acme"
		items, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, items, 2)

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("status filter", func(t *testing.T) {
		items, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter().With("status", invoicing.StatusSent))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "INV-C", items[0].InvoiceNumber)
	})

	t.Run("pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.Page = 2
		filter.OrderBy = "invoice_number"
		filter.OrderDir = "asc"
		items, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "INV-C", items[0].InvoiceNumber)
	})

	t.Run("summary groups by status for the tenant only", func(t *testing.T) {
		summaries, err := repo.SummarizeByStatus(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		byStatus := map[invoicing.InvoiceStatus]invoicing.StatusSummary{}
		for _, s := range summaries {
			byStatus[s.Status] = s
		}
		assert.Equal(t, int64(2), byStatus[invoicing.StatusDraft].Count)
		assert.True(t, decimal.NewFromInt(330).Equal(byStatus[invoicing.StatusDraft].TotalAmount))
		assert.Equal(t, int64(1), byStatus[invoicing.StatusSent].Count)
		assert.True(t, decimal.NewFromInt(330).Equal(byStatus[invoicing.StatusSent].AmountDue))
	})
}

func TestGormInvoiceRepository_FindPastDue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	draft := newPersistedInvoice(t, repo, tenantID, "INV-D", "Acme", 100)
	sent := newPersistedInvoice(t, repo, tenantID, "INV-S", "Acme", 100)
	require.NoError(t, sent.TransitionTo(invoicing.StatusSent))
	require.NoError(t, repo.SaveWithLock(ctx, sent))
	paid := newPersistedInvoice(t, repo, tenantID, "INV-P", "Acme", 100)
	require.NoError(t, paid.TransitionTo(invoicing.StatusSent))
	require.NoError(t, repo.SaveWithLock(ctx, paid))
	require.NoError(t, paid.RecordPayment(paid.AmountDue))
	require.NoError(t, repo.SaveWithLock(ctx, paid))
	newPersistedInvoice(t, repo, uuid.New(), "INV-S", "Other", 100)

	asOf := draft.DueDate.AddDate(0, 0, 1)
	due, err := repo.FindPastDue(ctx, tenantID, asOf, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, sent.ID, due[0].ID)

	none, err := repo.FindPastDue(ctx, tenantID, sent.DueDate, 10)
	require.NoError(t, err)
	assert.Empty(t, none, "due date itself is not past due")

	ids, err := repo.ListTenantIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, tenantID)
}
