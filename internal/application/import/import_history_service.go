package importapp

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ListHistoryFilter narrows an import history listing
type ListHistoryFilter struct {
	Status   string `form:"status"`
	Source   string `form:"source"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ImportHistoryListResponse is one page of import runs
type ImportHistoryListResponse struct {
	Items      []*ImportHistoryResponse `json:"items"`
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
}

// ImportHistoryService reads past import runs
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
	archive     SourceArchive
	urlExpiry   time.Duration
	logger      *zap.Logger
}

// NewImportHistoryService creates a new ImportHistoryService. archive may be
// nil, in which case no download links are produced.
func NewImportHistoryService(historyRepo bulk.ImportHistoryRepository, archive SourceArchive, urlExpiry time.Duration, logger *zap.Logger) *ImportHistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &ImportHistoryService{
		historyRepo: historyRepo,
		archive:     archive,
		urlExpiry:   urlExpiry,
		logger:      logger,
	}
}

// GetImport returns one import run of the tenant, with a temporary link to
// the archived upload when there is one
func (s *ImportHistoryService) GetImport(ctx context.Context, tenantID, historyID uuid.UUID) (*ImportHistoryResponse, error) {
	history, err := s.historyRepo.FindByID(ctx, tenantID, historyID)
	if err != nil {
		return nil, err
	}
	if !history.BelongsTo(tenantID) {
		return nil, shared.ErrNotFound
	}

	resp := ToImportHistoryResponse(history)
	if s.archive != nil && history.SourceObjectKey != "" {
		url, expiresAt, err := s.archive.GenerateDownloadURL(ctx, history.SourceObjectKey, s.urlExpiry)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to sign import source download",
				zap.String("import_id", history.ID.String()),
				zap.Error(err),
			)
		} else {
			resp.DownloadURL = url
			resp.DownloadExpiresAt = &expiresAt
		}
	}
	return resp, nil
}

// ListImports lists the tenant's import runs, newest first
func (s *ImportHistoryService) ListImports(ctx context.Context, tenantID uuid.UUID, filter ListHistoryFilter) (*ImportHistoryListResponse, error) {
	var domainFilter bulk.ImportHistoryFilter
	if filter.Status != "" {
		status := bulk.ImportStatus(filter.Status)
		switch status {
		case bulk.ImportStatusPending, bulk.ImportStatusProcessing, bulk.ImportStatusCompleted,
			bulk.ImportStatusFailed, bulk.ImportStatusCancelled:
		default:
			return nil, shared.NewValidationError("status", fmt.Sprintf("Unknown import status %q", filter.Status))
		}
		domainFilter.Status = &status
	}
	if filter.Source != "" {
		source := bulk.ImportSource(filter.Source)
		if source != bulk.ImportSourceFile && source != bulk.ImportSourcePayload {
			return nil, shared.NewValidationError("source", fmt.Sprintf("Unknown import source %q", filter.Source))
		}
		domainFilter.Source = &source
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	result, err := s.historyRepo.FindAll(ctx, tenantID, domainFilter, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*ImportHistoryResponse, 0, len(result.Items))
	for _, h := range result.Items {
		if !h.BelongsTo(tenantID) {
			logger.WithLogger(ctx, s.logger).Error("Dropped row owned by another tenant",
				zap.String("import_id", h.ID.String()),
			)
			continue
		}
		items = append(items, ToImportHistoryResponse(h))
	}

	return &ImportHistoryListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	}, nil
}

// WriteErrorReport writes the row errors of an import run as CSV and returns
// a suggested file name
func (s *ImportHistoryService) WriteErrorReport(ctx context.Context, tenantID, historyID uuid.UUID, w io.Writer) (string, error) {
	history, err := s.historyRepo.FindByID(ctx, tenantID, historyID)
	if err != nil {
		return "", err
	}
	if !history.BelongsTo(tenantID) {
		return "", shared.ErrNotFound
	}
	if len(history.ErrorDetails) == 0 {
		return "", shared.NewDomainError("NO_ERRORS", "Import has no row errors")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Row", "Column", "Error Code", "Error Message", "Value"}); err != nil {
		return "", err
	}
	for _, e := range history.ErrorDetails {
		if err := cw.Write([]string{strconv.Itoa(e.Row), e.Column, e.Code, e.Message, e.Value}); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	return fmt.Sprintf("account_import_errors_%s.csv", history.ID.String()[:8]), nil
}
