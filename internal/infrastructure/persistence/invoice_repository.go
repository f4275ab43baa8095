package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, now: time.Now}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its number within a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists a tenant's invoices
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, InvoiceSortFields, "created_at")

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// CountForTenant counts a tenant's invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether the number is already used in the tenant
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or fully updates an invoice without a version check
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return saveTenantScoped(ctx, r.db, invoice.TenantID, models.InvoiceModelFromDomain(invoice))
}

// SaveWithLock inserts a new invoice, or updates an existing one only when
// the stored version is exactly one behind the in-memory version.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.InvoiceModel
		if err := tx.Select("version").
			Where("tenant_id = ? AND id = ?", invoice.TenantID, invoice.ID).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(models.InvoiceModelFromDomain(invoice)).Error
			}
			return err
		}

		// The aggregate already incremented its version.
		expectedVersion := invoice.Version - 1
		if current.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&models.InvoiceModel{}).
			Where("tenant_id = ? AND id = ? AND version = ?", invoice.TenantID, invoice.ID, expectedVersion).
			Updates(map[string]any{
				"customer_name":     invoice.CustomerName,
				"status":            invoice.Status,
				"subtotal":          invoice.Subtotal,
				"tax_percent":       invoice.TaxPercent,
				"tax_amount":        invoice.TaxAmount,
				"discount_amount":   invoice.DiscountAmount,
				"total_amount":      invoice.TotalAmount,
				"amount_paid":       invoice.AmountPaid,
				"amount_due":        invoice.AmountDue,
				"due_date":          invoice.DueDate,
				"status_changed_at": invoice.StatusChangedAt,
				"notes":             invoice.Notes,
				"version":           invoice.Version,
				"updated_at":        invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// GenerateInvoiceNumber returns the next free INV-YYYYMM-NNNN number for the tenant
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", r.now().Format("200601"))

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number LIKE ?", tenantID, prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	// Manually numbered invoices can occupy the counted slot.
	for seq := count + 1; ; seq++ {
		candidate := fmt.Sprintf("%s%04d", prefix, seq)
		exists, err := r.ExistsByNumber(ctx, tenantID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

type statusSummaryRow struct {
	Status      string
	Count       int64
	TotalAmount decimal.Decimal
	AmountDue   decimal.Decimal
}

// SummarizeByStatus aggregates counts and amounts per status
func (r *GormInvoiceRepository) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]invoicing.StatusSummary, error) {
	var rows []statusSummaryRow
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(amount_due), 0) AS amount_due").
		Scopes(tenant.Scope(tenantID)).
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]invoicing.StatusSummary, len(rows))
	for i, row := range rows {
		summaries[i] = invoicing.StatusSummary{
			Status:      invoicing.InvoiceStatus(row.Status),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
			AmountDue:   row.AmountDue,
		}
	}
	return summaries, nil
}

// FindPastDue returns invoices that are past their due date, still owe
// money and may move to overdue
func (r *GormInvoiceRepository) FindPastDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, limit int) ([]invoicing.Invoice, error) {
	var candidates []invoicing.InvoiceStatus
	for _, status := range invoicing.AllStatuses() {
		if invoicing.CanTransition(status, invoicing.StatusOverdue) {
			candidates = append(candidates, status)
		}
	}

	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("status IN ? AND due_date < ? AND amount_due > 0", candidates, asOf).
		Order("due_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// ListTenantIDs returns every tenant owning invoices. It is the only
// unscoped read and returns ids, never rows.
func (r *GormInvoiceRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		}
	}
	return query
}

// saveTenantScoped updates the row identified by the model's primary key
// and tenant, and inserts it when no such row exists. A row with the same
// id under another tenant is never touched: the insert then fails on the
// primary key.
func saveTenantScoped(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, model any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).Scopes(tenant.Scope(tenantID)).Select("*").Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		return tx.Create(model).Error
	})
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
