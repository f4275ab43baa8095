package accounting

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureTree builds:
//
//	BS / Assets / Current Assets / {Cash, Receivables}
//	BS / Liabilities / Current Liabilities / {Payables}
//	PL / Assets / Current Assets / {Cash}   (duplicate names under another main)
func fixtureTree(t *testing.T, tenant uuid.UUID) []Group {
	t.Helper()
	bs, _ := NewMainGroup(tenant, "Balance Sheet", "BS")
	pl, _ := NewMainGroup(tenant, "Profit and Loss", "PL")
	assets := mustChild(t, tenant, LevelElement, "Assets", "A", bs)
	liab := mustChild(t, tenant, LevelElement, "Liabilities", "L", bs)
	ca := mustChild(t, tenant, LevelSubElement, "Current Assets", "CA", assets)
	cl := mustChild(t, tenant, LevelSubElement, "Current Liabilities", "CL", liab)
	cash := mustChild(t, tenant, LevelDetailed, "Cash", "CASH", ca)
	recv := mustChild(t, tenant, LevelDetailed, "Receivables", "AR", ca)
	pay := mustChild(t, tenant, LevelDetailed, "Payables", "AP", cl)
	plAssets := mustChild(t, tenant, LevelElement, "Assets", "PA", pl)
	plCA := mustChild(t, tenant, LevelSubElement, "Current Assets", "PCA", plAssets)
	plCash := mustChild(t, tenant, LevelDetailed, "Cash", "PCASH", plCA)
	return []Group{*bs, *pl, *assets, *liab, *ca, *cl, *cash, *recv, *pay, *plAssets, *plCA, *plCash}
}

func TestGroupIndex_Resolve(t *testing.T) {
	tenant := uuid.New()
	groups := fixtureTree(t, tenant)
	idx := NewGroupIndex(tenant, groups)

	t.Run("resolves unique path", func(t *testing.T) {
		g, err := idx.Resolve(GroupPath{"Assets", "Current Assets", "Receivables"})
		require.NoError(t, err)
		assert.Equal(t, "AR", g.Code)
	})

	t.Run("sub group must sit under the matched element", func(t *testing.T) {
		_, err := idx.Resolve(GroupPath{"Liabilities", "Current Assets", "Cash"})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, CodeUnresolvedGroup, de.Code)
		assert.Equal(t, string(LevelSubElement), de.Details["level"])
	})

	t.Run("unknown detailed group", func(t *testing.T) {
		_, err := idx.Resolve(GroupPath{"Assets", "Current Assets", "Inventory"})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, string(LevelDetailed), de.Details["level"])
		assert.Equal(t, "Inventory", de.Details["name"])
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		_, err := idx.Resolve(GroupPath{"assets", "Current Assets", "Cash"})
		assert.ErrorIs(t, err, ErrUnresolvedGroup)
	})

	t.Run("same path under two main groups is ambiguous", func(t *testing.T) {
		_, err := idx.Resolve(GroupPath{"Assets", "Current Assets", "Cash"})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, CodeAmbiguousGroup, de.Code)
	})

	t.Run("other tenants groups are ignored", func(t *testing.T) {
		otherIdx := NewGroupIndex(uuid.New(), groups)
		_, err := otherIdx.Resolve(GroupPath{"Assets", "Current Assets", "Receivables"})
		assert.ErrorIs(t, err, ErrUnresolvedGroup)
	})
}

func TestBuildTree(t *testing.T) {
	tenant := uuid.New()
	groups := fixtureTree(t, tenant)

	var recv Group
	for _, g := range groups {
		if g.Code == "AR" {
			recv = g
		}
	}
	acc, err := NewAccount(tenant, &recv, "Trade Debtors", "", decimal.Zero)
	require.NoError(t, err)

	roots := BuildTree(groups, []Account{*acc})
	require.Len(t, roots, 2)
	assert.Equal(t, "BS", roots[0].Group.Code)
	assert.Equal(t, "PL", roots[1].Group.Code)

	bs := roots[0]
	require.Len(t, bs.Children, 2)
	assets := bs.Children[0]
	assert.Equal(t, "A", assets.Group.Code)
	require.Len(t, assets.Children, 1)
	ca := assets.Children[0]
	require.Len(t, ca.Children, 2)
	assert.Equal(t, "AR", ca.Children[0].Group.Code)
	require.Len(t, ca.Children[0].Accounts, 1)
	assert.Equal(t, "Trade Debtors", ca.Children[0].Accounts[0].AccountName)
}
