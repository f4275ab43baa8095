package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the ledger
// schema. A single connection keeps the in-memory database alive.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newPersistedInvoice(t *testing.T, repo *GormInvoiceRepository, tenantID uuid.UUID, number, customer string, subtotal int64) *invoicing.Invoice {
	t.Helper()

	issue := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, number, customer, invoicing.InvoiceAmounts{
		Subtotal:   decimal.NewFromInt(subtotal),
		TaxPercent: decimal.NewFromInt(10),
	}, issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(context.Background(), inv))
	inv.ClearDomainEvents()
	return inv
}

// hierarchy is a persisted main > element > sub element > detailed chain
type hierarchy struct {
	Main, Element, SubElement, Detailed *accounting.Group
}

func newPersistedHierarchy(t *testing.T, repo *GormGroupRepository, tenantID uuid.UUID, suffix string) hierarchy {
	t.Helper()
	ctx := context.Background()

	main, err := accounting.NewMainGroup(tenantID, "Assets"+suffix, "1"+suffix)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, main))

	element, err := accounting.NewChildGroup(tenantID, accounting.LevelElement, "Current Assets"+suffix, "11"+suffix, main)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, element))

	sub, err := accounting.NewChildGroup(tenantID, accounting.LevelSubElement, "Cash"+suffix, "111"+suffix, element)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	detailed, err := accounting.NewChildGroup(tenantID, accounting.LevelDetailed, "Bank"+suffix, "1111"+suffix, sub)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, detailed))

	return hierarchy{Main: main, Element: element, SubElement: sub, Detailed: detailed}
}
