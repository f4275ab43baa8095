package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ledgerdesk/backend/tests/testutil"
)

func TestConstraintViolationClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{"postgres unique", &pgconn.PgError{Code: pgUniqueViolation}, true, false},
		{"wrapped postgres unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation}), true, false},
		{"postgres foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, false, true},
		{"postgres other", &pgconn.PgError{Code: "23502"}, false, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true, false},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, false, true},
		{"sqlite unique", errors.New("UNIQUE constraint failed: account_groups.code"), true, false},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), false, true},
		{"unrelated", errors.New("connection reset"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, isForeignKeyViolation(tt.err))
		})
	}
}

func TestGormGroupRepository_SaveDuplicateCodeRace(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX uq_account_groups_tenant_level_code ON account_groups (tenant_id, level, code)",
	).Error)
	repo := NewGormGroupRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := accounting.NewMainGroup(tenantID, "Assets", "1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	// A writer that passed the existence check before the first insert
	// committed.
	second, err := accounting.NewMainGroup(tenantID, "Assets Again", "1")
	require.NoError(t, err)

	err = repo.Save(ctx, second)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, accounting.CodeDuplicateCode, domainErr.Code)

	other, err := accounting.NewMainGroup(uuid.New(), "Assets", "1")
	require.NoError(t, err)
	assert.NoError(t, repo.Save(ctx, other), "codes are unique per tenant only")
}

func TestGormGroupRepository_DeleteRestrictedByChild(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormGroupRepository(mockDB.DB)
	tenantID := uuid.New()
	groupID := uuid.New()

	// A child row inserted after the children were counted
	mockDB.Mock.ExpectExec(`DELETE FROM "account_groups" WHERE tenant_id = \$1 AND level = \$2 AND id = \$3`).
		WillReturnError(&pgconn.PgError{
			Code:           pgForeignKeyViolation,
			ConstraintName: "account_groups_parent_id_fkey",
		})

	err := repo.DeleteForTenant(context.Background(), tenantID, accounting.LevelElement, groupID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, accounting.CodeHasChildren, domainErr.Code)
	assert.Equal(t, accounting.LevelElement.String(), domainErr.Details["level"])
	mockDB.ExpectationsWereMet(t)
}

func TestGormGroupRepository_DeletePassesOtherErrorsThrough(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormGroupRepository(mockDB.DB)
	failure := errors.New("connection reset")

	mockDB.Mock.ExpectExec(`DELETE FROM "account_groups"`).WillReturnError(failure)

	err := repo.DeleteForTenant(context.Background(), uuid.New(), accounting.LevelMain, uuid.New())
	assert.ErrorIs(t, err, failure)
	mockDB.ExpectationsWereMet(t)
}
