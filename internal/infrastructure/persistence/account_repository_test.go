package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersistedAccount(t *testing.T, repo *GormAccountRepository, tenantID uuid.UUID, group *accounting.Group, name string) *accounting.Account {
	t.Helper()
	account, err := accounting.NewAccount(tenantID, group, name, "", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))
	return account
}

func TestGormAccountRepository_TenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	groups := NewGormGroupRepository(db)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantA, tenantB := uuid.New(), uuid.New()
	hA := newPersistedHierarchy(t, groups, tenantA, "")
	hB := newPersistedHierarchy(t, groups, tenantB, "")

	newPersistedAccount(t, repo, tenantA, hA.Detailed, "Petty Cash")
	newPersistedAccount(t, repo, tenantA, hA.Detailed, "Main Bank")
	for i := 0; i < 500; i++ {
		newPersistedAccount(t, repo, tenantB, hB.Detailed, fmt.Sprintf("B Account %03d", i))
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	accounts, err := repo.FindAllForTenant(ctx, tenantA, filter)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	for _, a := range accounts {
		assert.Equal(t, tenantA, a.TenantID)
	}

	count, err := repo.CountForTenant(ctx, tenantA, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountForTenant(ctx, tenantB, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(500), count)
}

func TestGormAccountRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	groups := NewGormGroupRepository(db)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	h := newPersistedHierarchy(t, groups, tenantID, "")
	account := newPersistedAccount(t, repo, tenantID, h.Detailed, "Petty Cash")

	t.Run("round trips balances and flags", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "Petty Cash", found.AccountName)
		assert.True(t, decimal.NewFromInt(100).Equal(found.OpeningBalance))
		assert.True(t, decimal.NewFromInt(100).Equal(found.CurrentBalance))
		assert.True(t, found.IsActive)
		assert.False(t, found.IsSystemAccount)
	})

	t.Run("update persists false booleans", func(t *testing.T) {
		require.NoError(t, account.SetActive(false))
		require.NoError(t, repo.Save(ctx, account))

		found, err := repo.FindByIDForTenant(ctx, tenantID, account.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)
	})

	t.Run("find by name in group is exact", func(t *testing.T) {
		matches, err := repo.FindByNameInGroup(ctx, tenantID, h.Detailed.ID, "Petty Cash")
		require.NoError(t, err)
		assert.Len(t, matches, 1)

		matches, err = repo.FindByNameInGroup(ctx, tenantID, h.Detailed.ID, "petty cash")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("count by detailed group", func(t *testing.T) {
		n, err := repo.CountByDetailedGroup(ctx, tenantID, h.Detailed.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("filters", func(t *testing.T) {
		newPersistedAccount(t, repo, tenantID, h.Detailed, "Cash in Hand")

		active, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter().With("is_active", true))
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Cash in Hand", active[0].AccountName)

		filter := shared.DefaultFilter()
		filter.Search = "PETTY"
		found, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("delete is tenant scoped", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), account.ID), shared.ErrNotFound)
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, account.ID))
		_, err := repo.FindByIDForTenant(ctx, tenantID, account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAccountRepository_SaveNeverCrossesTenants(t *testing.T) {
	db := setupTestDB(t)
	groups := NewGormGroupRepository(db)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantA, tenantB := uuid.New(), uuid.New()
	h := newPersistedHierarchy(t, groups, tenantA, "")
	account := newPersistedAccount(t, repo, tenantA, h.Detailed, "Petty Cash")

	hijack := *account
	hijack.TenantID = tenantB
	hijack.AccountName = "Hijacked"
	assert.Error(t, repo.Save(ctx, &hijack))

	found, err := repo.FindByIDForTenant(ctx, tenantA, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Petty Cash", found.AccountName)
}
