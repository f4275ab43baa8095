package bulk

import (
	"context"

	"github.com/google/uuid"
)

// ImportHistoryFilter narrows an import history listing
type ImportHistoryFilter struct {
	Status *ImportStatus
	Source *ImportSource
}

// ImportHistoryListResult is one page of import histories
type ImportHistoryListResult struct {
	Items      []*ImportHistory
	TotalCount int64
	Page       int
	PageSize   int
}

// ImportHistoryRepository persists import histories
type ImportHistoryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ImportHistory, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ImportHistoryFilter, page, pageSize int) (*ImportHistoryListResult, error)
	Save(ctx context.Context, history *ImportHistory) error
}
