package models

import (
	"time"

	"github.com/ledgerdesk/backend/internal/domain/bulk"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	TenantAggregateModel
	Source          bulk.ImportSource  `gorm:"type:varchar(20);not null"`
	FileName        string             `gorm:"type:varchar(255);not null"`
	FileSize        int64              `gorm:"not null;default:0"`
	TotalRows       int                `gorm:"not null;default:0"`
	SuccessRows     int                `gorm:"not null;default:0"`
	ErrorRows       int                `gorm:"not null;default:0"`
	SkippedRows     int                `gorm:"not null;default:0"`
	UpdatedRows     int                `gorm:"not null;default:0"`
	Strictness      bulk.Strictness    `gorm:"type:varchar(20);not null;default:'strict'"`
	ConflictMode    bulk.ConflictMode  `gorm:"type:varchar(20);not null;default:'insert'"`
	Status          bulk.ImportStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	ErrorDetails    string             `gorm:"type:text"`
	SourceObjectKey string             `gorm:"type:varchar(512)"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	history := &bulk.ImportHistory{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Source:              m.Source,
		FileName:            m.FileName,
		FileSize:            m.FileSize,
		TotalRows:           m.TotalRows,
		SuccessRows:         m.SuccessRows,
		ErrorRows:           m.ErrorRows,
		SkippedRows:         m.SkippedRows,
		UpdatedRows:         m.UpdatedRows,
		Strictness:          m.Strictness,
		ConflictMode:        m.ConflictMode,
		Status:              m.Status,
		SourceObjectKey:     m.SourceObjectKey,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
	}

	if m.ErrorDetails != "" {
		_ = history.SetErrorDetailsFromJSON(m.ErrorDetails)
	}

	return history
}

// FromDomain populates the persistence model from a domain ImportHistory entity.
func (m *ImportHistoryModel) FromDomain(h *bulk.ImportHistory) {
	m.FromDomainTenantAggregateRoot(h.TenantAggregateRoot)
	m.Source = h.Source
	m.FileName = h.FileName
	m.FileSize = h.FileSize
	m.TotalRows = h.TotalRows
	m.SuccessRows = h.SuccessRows
	m.ErrorRows = h.ErrorRows
	m.SkippedRows = h.SkippedRows
	m.UpdatedRows = h.UpdatedRows
	m.Strictness = h.Strictness
	m.ConflictMode = h.ConflictMode
	m.Status = h.Status
	m.SourceObjectKey = h.SourceObjectKey
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	if errorJSON, err := h.ErrorDetailsJSON(); err == nil {
		m.ErrorDetails = errorJSON
	} else {
		m.ErrorDetails = "[]"
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{}
	m.FromDomain(h)
	return m
}
