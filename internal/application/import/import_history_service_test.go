package importapp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockImportHistoryRepository is a mock implementation of ImportHistoryRepository
type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*bulk.ImportHistory, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter bulk.ImportHistoryFilter, page, pageSize int) (*bulk.ImportHistoryListResult, error) {
	args := m.Called(ctx, tenantID, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistoryListResult), args.Error(1)
}

func (m *MockImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

type failingArchive struct{}

func (failingArchive) Upload(context.Context, string, []byte, string) error {
	return errors.New("bucket unavailable")
}

func (failingArchive) GenerateDownloadURL(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("bucket unavailable")
}

func newFinishedHistory(t *testing.T, tenantID uuid.UUID, errs []bulk.ImportErrorDetail) *bulk.ImportHistory {
	t.Helper()
	h, err := bulk.NewImportHistory(tenantID, bulk.ImportSourceFile, "accounts.csv", 512, bulk.StrictnessStrict, bulk.ConflictModeInsert)
	require.NoError(t, err)
	require.NoError(t, h.StartProcessing(3))
	require.NoError(t, h.Complete(2, len(errs), 0, 0, errs))
	return h
}

func TestImportHistoryService_GetImport(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("signs the archived source", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		archive := storage.NewInMemoryObjectStorage()
		svc := NewImportHistoryService(repo, archive, time.Minute, zap.NewNop())

		h := newFinishedHistory(t, tenantID, nil)
		h.AttachSource(ArchiveKey(tenantID, h.ID))
		repo.On("FindByID", ctx, tenantID, h.ID).Return(h, nil)

		resp, err := svc.GetImport(ctx, tenantID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 2, resp.SuccessRows)
		assert.True(t, strings.HasPrefix(resp.DownloadURL, archive.BaseURL+"/"))
		require.NotNil(t, resp.DownloadExpiresAt)
		assert.WithinDuration(t, time.Now().Add(time.Minute), *resp.DownloadExpiresAt, 5*time.Second)
		repo.AssertExpectations(t)
	})

	t.Run("signing failure still returns the record", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, failingArchive{}, 0, nil)

		h := newFinishedHistory(t, tenantID, nil)
		h.AttachSource("some/key.csv")
		repo.On("FindByID", ctx, tenantID, h.ID).Return(h, nil)

		resp, err := svc.GetImport(ctx, tenantID, h.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.DownloadURL)
		assert.Nil(t, resp.DownloadExpiresAt)
	})

	t.Run("other tenant's record is not found", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		h := newFinishedHistory(t, uuid.New(), nil)
		repo.On("FindByID", ctx, tenantID, h.ID).Return(h, nil)

		_, err := svc.GetImport(ctx, tenantID, h.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		id := uuid.New()
		repo.On("FindByID", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetImport(ctx, tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestImportHistoryService_ListImports(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("applies filters and clamps paging", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		status := bulk.ImportStatusFailed
		source := bulk.ImportSourcePayload
		expected := bulk.ImportHistoryFilter{Status: &status, Source: &source}
		h := newFinishedHistory(t, tenantID, nil)
		repo.On("FindAll", ctx, tenantID, expected, 1, 100).Return(&bulk.ImportHistoryListResult{
			Items:      []*bulk.ImportHistory{h},
			TotalCount: 1,
			Page:       1,
			PageSize:   100,
		}, nil)

		resp, err := svc.ListImports(ctx, tenantID, ListHistoryFilter{Status: "failed", Source: "payload", Page: 0, PageSize: 500})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, h.ID, resp.Items[0].ID)
		assert.Equal(t, int64(1), resp.TotalCount)
		repo.AssertExpectations(t)
	})

	t.Run("drops rows of another tenant", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		own := newFinishedHistory(t, tenantID, nil)
		foreign := newFinishedHistory(t, uuid.New(), nil)
		repo.On("FindAll", ctx, tenantID, bulk.ImportHistoryFilter{}, 1, 20).Return(&bulk.ImportHistoryListResult{
			Items:      []*bulk.ImportHistory{own, foreign},
			TotalCount: 2,
			Page:       1,
			PageSize:   20,
		}, nil)

		resp, err := svc.ListImports(ctx, tenantID, ListHistoryFilter{})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, own.ID, resp.Items[0].ID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewImportHistoryService(new(MockImportHistoryRepository), nil, 0, nil)
		_, err := svc.ListImports(ctx, tenantID, ListHistoryFilter{Status: "done"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		svc := NewImportHistoryService(new(MockImportHistoryRepository), nil, 0, nil)
		_, err := svc.ListImports(ctx, tenantID, ListHistoryFilter{Source: "ftp"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestImportHistoryService_WriteErrorReport(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("writes one line per row error", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		h := newFinishedHistory(t, tenantID, []bulk.ImportErrorDetail{
			{Row: 2, Column: "detailed group", Code: "UNRESOLVED_GROUP", Message: `Detailed group "Nowhere, Inc" not found`, Value: "Nowhere, Inc"},
		})
		repo.On("FindByID", ctx, tenantID, h.ID).Return(h, nil)

		var buf bytes.Buffer
		name, err := svc.WriteErrorReport(ctx, tenantID, h.ID, &buf)
		require.NoError(t, err)
		assert.Equal(t, "account_import_errors_"+h.ID.String()[:8]+".csv", name)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Row,Column,Error Code,Error Message,Value", lines[0])
		assert.Equal(t, `2,detailed group,UNRESOLVED_GROUP,"Detailed group ""Nowhere, Inc"" not found","Nowhere, Inc"`, lines[1])
	})

	t.Run("no errors", func(t *testing.T) {
		repo := new(MockImportHistoryRepository)
		svc := NewImportHistoryService(repo, nil, 0, nil)

		h := newFinishedHistory(t, tenantID, nil)
		repo.On("FindByID", ctx, tenantID, h.ID).Return(h, nil)

		_, err := svc.WriteErrorReport(ctx, tenantID, h.ID, &bytes.Buffer{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ERRORS", domainErr.Code)
	})
}

func TestImportFile_ArchiveFailureDoesNotFailImport(t *testing.T) {
	f := setupImport(t)
	svc := NewAccountImportService(f.groups, f.accounts, f.history, DefaultOptions(), WithArchive(failingArchive{}))

	data := csvHeader + "Petty Cash,Assets,Current Assets,Cash,,0\n"
	result, err := svc.ImportFile(context.Background(), f.tenantID, nil, "a.csv", []byte(data), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)

	history, err := f.history.FindByID(context.Background(), f.tenantID, result.ImportID)
	require.NoError(t, err)
	assert.Empty(t, history.SourceObjectKey)
}
