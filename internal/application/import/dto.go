package importapp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	csvimport "github.com/ledgerdesk/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// Overrides replaces the configured import modes for a single run. Empty
// fields keep the configured value.
type Overrides struct {
	Strictness   bulk.Strictness
	ConflictMode bulk.ConflictMode
}

// AccountPayloadRow is one client-parsed row of the JSON upload. The wire
// keys are camelCase; the snake_case spellings are accepted too.
type AccountPayloadRow struct {
	AccountName         string           `json:"accountName"`
	ElementGroupName    string           `json:"elementGroupName"`
	SubElementGroupName string           `json:"subElementGroupName"`
	DetailedGroupName   string           `json:"detailedGroupName"`
	Description         string           `json:"description,omitempty"`
	OpeningBalance      *decimal.Decimal `json:"openingBalance,omitempty"`
}

// UnmarshalJSON decodes either key spelling. When both are present the
// camelCase value wins.
func (r *AccountPayloadRow) UnmarshalJSON(data []byte) error {
	var wire struct {
		AccountName         string           `json:"accountName"`
		ElementGroupName    string           `json:"elementGroupName"`
		SubElementGroupName string           `json:"subElementGroupName"`
		DetailedGroupName   string           `json:"detailedGroupName"`
		Description         string           `json:"description"`
		OpeningBalance      *decimal.Decimal `json:"openingBalance"`

		AccountNameSnake         string           `json:"account_name"`
		ElementGroupNameSnake    string           `json:"element_group_name"`
		SubElementGroupNameSnake string           `json:"sub_element_group_name"`
		DetailedGroupNameSnake   string           `json:"detailed_group_name"`
		OpeningBalanceSnake      *decimal.Decimal `json:"opening_balance"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = AccountPayloadRow{
		AccountName:         firstNonEmpty(wire.AccountName, wire.AccountNameSnake),
		ElementGroupName:    firstNonEmpty(wire.ElementGroupName, wire.ElementGroupNameSnake),
		SubElementGroupName: firstNonEmpty(wire.SubElementGroupName, wire.SubElementGroupNameSnake),
		DetailedGroupName:   firstNonEmpty(wire.DetailedGroupName, wire.DetailedGroupNameSnake),
		Description:         wire.Description,
		OpeningBalance:      wire.OpeningBalance,
	}
	if r.OpeningBalance == nil {
		r.OpeningBalance = wire.OpeningBalanceSnake
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// AccountPayload is the body of the JSON upload
type AccountPayload struct {
	Accounts []AccountPayloadRow `json:"accounts" binding:"required"`
}

// AccountImportResult is the aggregate outcome of one import run
type AccountImportResult struct {
	ImportID    uuid.UUID            `json:"import_id"`
	Status      string               `json:"status"`
	TotalRows   int                  `json:"total_rows"`
	Successful  int                  `json:"successful"`
	Failed      int                  `json:"failed"`
	Skipped     int                  `json:"skipped"`
	Updated     int                  `json:"updated"`
	Errors      []string             `json:"errors"`
	RowErrors   []csvimport.RowError `json:"row_errors"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
}

// ImportHistoryResponse is an import run in API responses
type ImportHistoryResponse struct {
	ID                uuid.UUID                `json:"id"`
	Source            string                   `json:"source"`
	FileName          string                   `json:"file_name"`
	FileSize          int64                    `json:"file_size"`
	Status            string                   `json:"status"`
	Strictness        string                   `json:"strictness"`
	ConflictMode      string                   `json:"conflict_mode"`
	TotalRows         int                      `json:"total_rows"`
	SuccessRows       int                      `json:"success_rows"`
	ErrorRows         int                      `json:"error_rows"`
	SkippedRows       int                      `json:"skipped_rows"`
	UpdatedRows       int                      `json:"updated_rows"`
	ErrorDetails      []bulk.ImportErrorDetail `json:"error_details,omitempty"`
	StartedAt         *time.Time               `json:"started_at,omitempty"`
	CompletedAt       *time.Time               `json:"completed_at,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	CreatedBy         *uuid.UUID               `json:"created_by,omitempty"`
	DownloadURL       string                   `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time               `json:"download_expires_at,omitempty"`
}

// ToImportHistoryResponse converts a history record to its response form
func ToImportHistoryResponse(h *bulk.ImportHistory) *ImportHistoryResponse {
	return &ImportHistoryResponse{
		ID:           h.ID,
		Source:       string(h.Source),
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		Status:       string(h.Status),
		Strictness:   string(h.Strictness),
		ConflictMode: string(h.ConflictMode),
		TotalRows:    h.TotalRows,
		SuccessRows:  h.SuccessRows,
		ErrorRows:    h.ErrorRows,
		SkippedRows:  h.SkippedRows,
		UpdatedRows:  h.UpdatedRows,
		ErrorDetails: h.ErrorDetails,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		CreatedAt:    h.CreatedAt,
		CreatedBy:    h.CreatedBy,
	}
}
