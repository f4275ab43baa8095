// Package bulk models bulk account imports and their audit trail.
package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// ImportSource is how the rows reached the server
type ImportSource string

const (
	// ImportSourceFile is a CSV file parsed on the server
	ImportSourceFile ImportSource = "file"
	// ImportSourcePayload is a list of candidates parsed by the client
	ImportSourcePayload ImportSource = "payload"
)

// ImportStatus is the processing state of an import
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
	ImportStatusCancelled  ImportStatus = "cancelled"
)

// IsTerminal reports whether the import can no longer change
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed || s == ImportStatusCancelled
}

// Strictness controls how rows with some but not all required cells are
// treated. Rows with no cells at all are always skipped.
type Strictness string

const (
	// StrictnessStrict reports partially filled rows as failed rows
	StrictnessStrict Strictness = "strict"
	// StrictnessLenient silently skips partially filled rows
	StrictnessLenient Strictness = "lenient"
)

// IsValid reports whether s is a known strictness level
func (s Strictness) IsValid() bool {
	return s == StrictnessStrict || s == StrictnessLenient
}

// ConflictMode decides what happens when an account with the same name
// already exists under the resolved detailed group.
type ConflictMode string

const (
	// ConflictModeInsert always creates a new account
	ConflictModeInsert ConflictMode = "insert"
	// ConflictModeSkip leaves the existing account alone
	ConflictModeSkip ConflictMode = "skip"
	// ConflictModeUpdate overwrites description and opening balance
	ConflictModeUpdate ConflictMode = "update"
)

// IsValid reports whether c is a known conflict mode
func (c ConflictMode) IsValid() bool {
	switch c {
	case ConflictModeInsert, ConflictModeSkip, ConflictModeUpdate:
		return true
	}
	return false
}

// ImportErrorDetail describes one failed row
type ImportErrorDetail struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportHistory records one run of the account importer
type ImportHistory struct {
	shared.TenantAggregateRoot
	Source          ImportSource
	FileName        string
	FileSize        int64
	TotalRows       int
	SuccessRows     int
	ErrorRows       int
	SkippedRows     int
	UpdatedRows     int
	Strictness      Strictness
	ConflictMode    ConflictMode
	Status          ImportStatus
	ErrorDetails    []ImportErrorDetail
	SourceObjectKey string
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// NewImportHistory creates a pending import record
func NewImportHistory(
	tenantID uuid.UUID,
	source ImportSource,
	fileName string,
	fileSize int64,
	strictness Strictness,
	conflictMode ConflictMode,
) (*ImportHistory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if source != ImportSourceFile && source != ImportSourcePayload {
		return nil, shared.NewDomainErrorf("INVALID_SOURCE", "Invalid import source: %s", source)
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}
	if !strictness.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_STRICTNESS", "Invalid strictness: %s", strictness)
	}
	if !conflictMode.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CONFLICT_MODE", "Invalid conflict mode: %s", conflictMode)
	}

	return &ImportHistory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Source:              source,
		FileName:            fileName,
		FileSize:            fileSize,
		Strictness:          strictness,
		ConflictMode:        conflictMode,
		Status:              ImportStatusPending,
		ErrorDetails:        make([]ImportErrorDetail, 0),
	}, nil
}

// AttachSource records where the raw upload was archived
func (h *ImportHistory) AttachSource(objectKey string) {
	h.SourceObjectKey = objectKey
	h.UpdatedAt = time.Now()
}

// StartProcessing moves a pending import to processing
func (h *ImportHistory) StartProcessing(totalRows int) error {
	if h.Status != ImportStatusPending {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot start processing from state: %s", h.Status)
	}
	if totalRows < 0 {
		return shared.NewDomainError("INVALID_TOTAL_ROWS", "Total rows cannot be negative")
	}

	now := time.Now()
	h.Status = ImportStatusProcessing
	h.TotalRows = totalRows
	h.StartedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()
	return nil
}

// Complete records the final counts. A run where every processed row failed
// is marked failed rather than completed.
func (h *ImportHistory) Complete(successRows, errorRows, skippedRows, updatedRows int, errs []ImportErrorDetail) error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot complete from state: %s", h.Status)
	}

	status := ImportStatusCompleted
	if errorRows > 0 && successRows == 0 && updatedRows == 0 {
		status = ImportStatusFailed
	}

	h.finish(status)
	h.SuccessRows = successRows
	h.ErrorRows = errorRows
	h.SkippedRows = skippedRows
	h.UpdatedRows = updatedRows
	h.ErrorDetails = errs
	return nil
}

// Fail ends the import with a whole-file error
func (h *ImportHistory) Fail(errs []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot fail from terminal state: %s", h.Status)
	}
	h.finish(ImportStatusFailed)
	h.ErrorDetails = errs
	return nil
}

// Cancel ends an import interrupted before all rows were processed,
// keeping the counts reached so far.
func (h *ImportHistory) Cancel(successRows, errorRows, skippedRows, updatedRows int, errs []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel from terminal state: %s", h.Status)
	}
	h.finish(ImportStatusCancelled)
	h.SuccessRows = successRows
	h.ErrorRows = errorRows
	h.SkippedRows = skippedRows
	h.UpdatedRows = updatedRows
	h.ErrorDetails = errs
	return nil
}

func (h *ImportHistory) finish(status ImportStatus) {
	now := time.Now()
	h.Status = status
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()
}

// ErrorDetailsJSON serialises the row errors for storage
func (h *ImportHistory) ErrorDetailsJSON() (string, error) {
	if len(h.ErrorDetails) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// SetErrorDetailsFromJSON restores the row errors from storage
func (h *ImportHistory) SetErrorDetailsFromJSON(raw string) error {
	if raw == "" || raw == "[]" {
		h.ErrorDetails = make([]ImportErrorDetail, 0)
		return nil
	}
	var details []ImportErrorDetail
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return fmt.Errorf("failed to unmarshal error details: %w", err)
	}
	h.ErrorDetails = details
	return nil
}

// Duration is the processing time, or the time elapsed so far
func (h *ImportHistory) Duration() time.Duration {
	if h.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if h.CompletedAt != nil {
		end = *h.CompletedAt
	}
	return end.Sub(*h.StartedAt)
}
