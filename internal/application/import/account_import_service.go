// Package importapp holds the bulk account import services.
package importapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	"github.com/ledgerdesk/backend/internal/infrastructure/config"
	csvimport "github.com/ledgerdesk/backend/internal/infrastructure/import"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

const (
	// maxReportedErrors bounds the row errors returned and stored per run
	maxReportedErrors = 1000

	// CodeImportRowFailed marks a row that validated but could not be stored
	CodeImportRowFailed = "IMPORT_FAILED"

	payloadFileName = "csv-upload.json"
)

// SourceArchive stores raw uploads and hands out temporary download links
type SourceArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// Options are the importer defaults and limits
type Options struct {
	Strictness   bulk.Strictness
	ConflictMode bulk.ConflictMode
	// MaxErrors stops a run once more rows than this have failed; zero
	// means never stop early
	MaxErrors int
	// MaxRows rejects files with more data rows; zero means unlimited
	MaxRows int
	// MaxBytes rejects larger uploads; zero means unlimited
	MaxBytes int64
	Fallback encoding.Encoding
	// DownloadURLExpiry is the lifetime of archive download links
	DownloadURLExpiry time.Duration
}

// DefaultOptions returns strict, insert-only options without limits
func DefaultOptions() Options {
	return Options{
		Strictness:        bulk.StrictnessStrict,
		ConflictMode:      bulk.ConflictModeInsert,
		DownloadURLExpiry: 15 * time.Minute,
	}
}

// OptionsFromConfig builds Options from the import and storage settings
func OptionsFromConfig(cfg config.ImportConfig, storageCfg config.StorageConfig, maxBytes int64) (Options, error) {
	opts := DefaultOptions()
	if cfg.Strictness != "" {
		opts.Strictness = bulk.Strictness(cfg.Strictness)
	}
	if cfg.ConflictMode != "" {
		opts.ConflictMode = bulk.ConflictMode(cfg.ConflictMode)
	}
	if !opts.Strictness.IsValid() {
		return Options{}, fmt.Errorf("invalid import strictness %q", cfg.Strictness)
	}
	if !opts.ConflictMode.IsValid() {
		return Options{}, fmt.Errorf("invalid import conflict mode %q", cfg.ConflictMode)
	}
	fallback, err := csvimport.FallbackEncoding(cfg.FallbackEncoding)
	if err != nil {
		return Options{}, err
	}
	opts.Fallback = fallback
	opts.MaxErrors = cfg.MaxErrors
	opts.MaxRows = cfg.MaxRows
	opts.MaxBytes = maxBytes
	if storageCfg.PresignExpiry > 0 {
		opts.DownloadURLExpiry = storageCfg.PresignExpiry
	}
	return opts, nil
}

// AccountImportService imports accounts from CSV files and client-parsed
// payloads. Every run resolves group names against the importing tenant's
// own groups only, and persists each row independently.
type AccountImportService struct {
	groups   accounting.GroupRepository
	accounts accounting.AccountRepository
	history  bulk.ImportHistoryRepository
	archive  SourceArchive
	metrics  *telemetry.LedgerMetrics
	logger   *zap.Logger
	opts     Options
}

// ServiceOption configures an AccountImportService
type ServiceOption func(*AccountImportService)

// WithArchive stores every uploaded file in object storage
func WithArchive(archive SourceArchive) ServiceOption {
	return func(s *AccountImportService) {
		s.archive = archive
	}
}

// WithMetrics records run and row counters
func WithMetrics(m *telemetry.LedgerMetrics) ServiceOption {
	return func(s *AccountImportService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *AccountImportService) {
		s.logger = l
	}
}

// NewAccountImportService creates a new AccountImportService
func NewAccountImportService(
	groups accounting.GroupRepository,
	accounts accounting.AccountRepository,
	history bulk.ImportHistoryRepository,
	opts Options,
	serviceOpts ...ServiceOption,
) *AccountImportService {
	s := &AccountImportService{
		groups:   groups,
		accounts: accounts,
		history:  history,
		logger:   zap.NewNop(),
		opts:     opts,
	}
	for _, opt := range serviceOpts {
		opt(s)
	}
	return s
}

// ArchiveKey is the object key an upload is archived under
func ArchiveKey(tenantID, importID uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/account-imports/%s.csv", tenantID, importID)
}

// ImportFile parses and imports a CSV file. Whole-file problems such as
// missing required columns fail the run before any row is stored and are
// returned as the error.
func (s *AccountImportService) ImportFile(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, fileName string, data []byte, overrides Overrides) (*AccountImportResult, error) {
	strictness, mode, err := s.resolveModes(overrides)
	if err != nil {
		return nil, err
	}
	if fileName == "" {
		fileName = "upload.csv"
	}

	history, err := s.newHistory(ctx, tenantID, userID, bulk.ImportSourceFile, fileName, int64(len(data)), strictness, mode)
	if err != nil {
		return nil, err
	}
	s.archiveSource(ctx, history, data)

	file, err := s.readFile(data)
	if err != nil {
		s.failHistory(ctx, history, err)
		return nil, err
	}

	return s.run(ctx, history, file.Rows, file.Malformed)
}

// ImportPayload imports rows the client already parsed. Rows are numbered
// from 1 in payload order.
func (s *AccountImportService) ImportPayload(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, payload AccountPayload, overrides Overrides) (*AccountImportResult, error) {
	strictness, mode, err := s.resolveModes(overrides)
	if err != nil {
		return nil, err
	}
	if s.opts.MaxRows > 0 && len(payload.Accounts) > s.opts.MaxRows {
		return nil, csvimport.ErrTooManyRows.WithDetail("max_rows", fmt.Sprint(s.opts.MaxRows))
	}

	history, err := s.newHistory(ctx, tenantID, userID, bulk.ImportSourcePayload, payloadFileName, 0, strictness, mode)
	if err != nil {
		return nil, err
	}

	rows := make([]csvimport.RawAccountRow, 0, len(payload.Accounts))
	var empty []csvimport.RowError
	for i, p := range payload.Accounts {
		opening := ""
		if p.OpeningBalance != nil {
			opening = p.OpeningBalance.String()
		}
		raw := csvimport.RawAccountRow{
			Row:             i + 1,
			AccountName:     p.AccountName,
			ElementGroup:    p.ElementGroupName,
			SubElementGroup: p.SubElementGroupName,
			DetailedGroup:   p.DetailedGroupName,
			Description:     p.Description,
			OpeningBalance:  opening,
		}.Trimmed()
		// A payload row is an explicit object, so an empty one is reported
		// rather than treated like a trailing blank line.
		if raw.IsBlank() {
			empty = append(empty, csvimport.NewRowError(raw.Row, "", csvimport.CodeEmptyRow,
				"row has no recognised account fields"))
			continue
		}
		rows = append(rows, raw)
	}

	return s.run(ctx, history, rows, empty)
}

func (s *AccountImportService) resolveModes(o Overrides) (bulk.Strictness, bulk.ConflictMode, error) {
	strictness, mode := s.opts.Strictness, s.opts.ConflictMode
	if strictness == "" {
		strictness = bulk.StrictnessStrict
	}
	if mode == "" {
		mode = bulk.ConflictModeInsert
	}
	if o.Strictness != "" {
		if !o.Strictness.IsValid() {
			return "", "", shared.NewValidationError("strictness", "Strictness must be 'strict' or 'lenient'")
		}
		strictness = o.Strictness
	}
	if o.ConflictMode != "" {
		if !o.ConflictMode.IsValid() {
			return "", "", shared.NewValidationError("conflict_mode", "Conflict mode must be 'insert', 'skip' or 'update'")
		}
		mode = o.ConflictMode
	}
	return strictness, mode, nil
}

func (s *AccountImportService) newHistory(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, source bulk.ImportSource, fileName string, size int64, strictness bulk.Strictness, mode bulk.ConflictMode) (*bulk.ImportHistory, error) {
	history, err := bulk.NewImportHistory(tenantID, source, fileName, size, strictness, mode)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		history.SetCreatedBy(*userID)
	}
	if err := s.history.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}
	return history, nil
}

// archiveSource keeps a copy of the upload. Archive failures are logged and
// never fail the import.
func (s *AccountImportService) archiveSource(ctx context.Context, history *bulk.ImportHistory, data []byte) {
	if s.archive == nil {
		return
	}
	key := ArchiveKey(history.TenantID, history.ID)
	if err := s.archive.Upload(ctx, key, data, "text/csv"); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to archive import source",
			zap.String("import_id", history.ID.String()),
			zap.Error(err),
		)
		return
	}
	history.AttachSource(key)
}

func (s *AccountImportService) readFile(data []byte) (*csvimport.AccountFile, error) {
	var parserOpts []csvimport.ParserOption
	if s.opts.Fallback != nil {
		parserOpts = append(parserOpts, csvimport.WithFallbackEncoding(s.opts.Fallback))
	}
	if s.opts.MaxBytes > 0 {
		parserOpts = append(parserOpts, csvimport.WithMaxBytes(s.opts.MaxBytes))
	}
	return csvimport.ReadAccountFile(bytes.NewReader(data), s.opts.MaxRows, parserOpts...)
}

func (s *AccountImportService) failHistory(ctx context.Context, history *bulk.ImportHistory, cause error) {
	detail := bulk.ImportErrorDetail{Code: "IMPORT_FAILED", Message: cause.Error()}
	var domainErr *shared.DomainError
	if errors.As(cause, &domainErr) {
		detail.Code = domainErr.Code
		detail.Message = domainErr.Message
	}
	if err := history.Fail([]bulk.ImportErrorDetail{detail}); err == nil {
		s.saveHistory(ctx, history)
	}
	s.metrics.RecordImport(ctx, history.TenantID, string(bulk.ImportStatusFailed), telemetry.ImportTally{}, 0)
	logger.WithLogger(ctx, s.logger).Info("Account import rejected",
		zap.String("import_id", history.ID.String()),
		zap.String("code", detail.Code),
	)
}

// saveHistory persists the final state even when the request context is
// already cancelled
func (s *AccountImportService) saveHistory(ctx context.Context, history *bulk.ImportHistory) {
	if err := s.history.Save(context.WithoutCancel(ctx), history); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to save import history",
			zap.String("import_id", history.ID.String()),
			zap.Error(err),
		)
	}
}

// run processes the rows of a started import and records the outcome
func (s *AccountImportService) run(ctx context.Context, history *bulk.ImportHistory, rows []csvimport.RawAccountRow, malformed []csvimport.RowError) (*AccountImportResult, error) {
	var (
		result *AccountImportResult
		runErr error
	)
	telemetry.WithOperationLabels(ctx, "account_import", history.TenantID.String(), func(ctx context.Context) {
		result, runErr = s.process(ctx, history, rows, malformed)
	})
	return result, runErr
}

func (s *AccountImportService) process(ctx context.Context, history *bulk.ImportHistory, rows []csvimport.RawAccountRow, malformed []csvimport.RowError) (*AccountImportResult, error) {
	tenantID := history.TenantID
	ctx, span := telemetry.StartServiceSpan(ctx, "account_import", "process",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrImportID.String(history.ID.String()),
	)
	defer span.End()
	started := time.Now()

	if err := history.StartProcessing(len(rows) + len(malformed)); err != nil {
		return nil, err
	}
	s.saveHistory(ctx, history)

	groups, err := s.groups.FindAllLevelsForTenant(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.failHistory(ctx, history, err)
		return nil, err
	}
	index := accounting.NewGroupIndex(tenantID, groups)

	run := &rowRun{
		svc:        s,
		tenantID:   tenantID,
		createdBy:  history.CreatedBy,
		index:      index,
		strictness: history.Strictness,
		mode:       history.ConflictMode,
		errs:       csvimport.NewErrorCollection(maxReportedErrors),
		result:     &AccountImportResult{ImportID: history.ID, TotalRows: len(rows) + len(malformed)},
	}
	for _, m := range malformed {
		run.fail(m)
	}

	var cancelErr error
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		if s.opts.MaxErrors > 0 && run.result.Failed > s.opts.MaxErrors {
			for _, rest := range rows[i:] {
				run.fail(csvimport.NewRowError(rest.Row, "", csvimport.CodeNotProcessed,
					fmt.Sprintf("not processed: more than %d rows failed", s.opts.MaxErrors)))
			}
			break
		}
		run.importRow(ctx, raw)
	}

	result := run.finish()
	details := toErrorDetails(result.RowErrors)
	if cancelErr != nil {
		_ = history.Cancel(result.Successful, result.Failed, result.Skipped, result.Updated, details)
	} else if err := history.Complete(result.Successful, result.Failed, result.Skipped, result.Updated, details); err != nil {
		return nil, err
	}
	s.saveHistory(ctx, history)
	result.Status = string(history.Status)

	s.metrics.RecordImport(ctx, tenantID, result.Status, telemetry.ImportTally{
		Inserted: result.Successful,
		Updated:  result.Updated,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
	}, time.Since(started))

	logger.WithLogger(ctx, s.logger).Info("Account import finished",
		zap.String("import_id", history.ID.String()),
		zap.String("status", result.Status),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("updated", result.Updated),
	)

	if cancelErr != nil {
		return result, cancelErr
	}
	return result, nil
}

// rowRun carries the state of one import loop
type rowRun struct {
	svc        *AccountImportService
	tenantID   uuid.UUID
	createdBy  *uuid.UUID
	index      *accounting.GroupIndex
	strictness bulk.Strictness
	mode       bulk.ConflictMode
	errs       *csvimport.ErrorCollection
	result     *AccountImportResult
}

func (r *rowRun) fail(errs ...csvimport.RowError) {
	for _, e := range errs {
		r.errs.Add(e)
	}
	r.result.Failed++
}

func (r *rowRun) importRow(ctx context.Context, raw csvimport.RawAccountRow) {
	candidate, outcome, rowErrs := csvimport.PrepareCandidate(raw, r.strictness)
	switch outcome {
	case csvimport.RowBlank:
		return
	case csvimport.RowSkipped:
		r.result.Skipped++
		return
	case csvimport.RowFailed:
		r.fail(rowErrs...)
		return
	}

	group, err := r.index.Resolve(candidate.Path)
	if err != nil {
		r.fail(resolutionError(candidate, err))
		return
	}

	if r.mode != bulk.ConflictModeInsert {
		existing, err := r.svc.accounts.FindByNameInGroup(ctx, r.tenantID, group.ID, candidate.AccountName)
		if err != nil {
			r.fail(storeError(candidate.Row, err))
			return
		}
		if len(existing) > 0 {
			if r.mode == bulk.ConflictModeSkip {
				r.result.Skipped++
				return
			}
			account := &existing[0]
			account.SetDescription(candidate.Description)
			account.AdjustOpeningBalance(candidate.OpeningBalance)
			if err := r.svc.accounts.Save(ctx, account); err != nil {
				r.fail(storeError(candidate.Row, err))
				return
			}
			r.result.Updated++
			return
		}
	}

	account, err := accounting.NewAccount(r.tenantID, group, candidate.AccountName, candidate.Description, candidate.OpeningBalance)
	if err != nil {
		r.fail(storeError(candidate.Row, err))
		return
	}
	if r.createdBy != nil {
		account.SetCreatedBy(*r.createdBy)
	}
	if err := r.svc.accounts.Save(ctx, account); err != nil {
		r.fail(storeError(candidate.Row, err))
		return
	}
	r.result.Successful++
}

func (r *rowRun) finish() *AccountImportResult {
	r.result.RowErrors = r.errs.Errors()
	r.result.Errors = r.errs.Messages()
	r.result.IsTruncated = r.errs.IsTruncated()
	return r.result
}

var levelColumns = map[string]string{
	accounting.LevelElement.String():    csvimport.ColElementGroup,
	accounting.LevelSubElement.String(): csvimport.ColSubElementGroup,
	accounting.LevelDetailed.String():   csvimport.ColDetailedGroup,
}

// resolutionError turns an UNRESOLVED_GROUP or AMBIGUOUS_GROUP error into a
// row error pointing at the offending column
func resolutionError(c csvimport.AccountCandidate, err error) csvimport.RowError {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return storeError(c.Row, err)
	}
	column := levelColumns[domainErr.Details["level"]]
	return csvimport.NewRowErrorWithValue(c.Row, column, domainErr.Code, domainErr.Message, domainErr.Details["name"])
}

func storeError(row int, err error) csvimport.RowError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return csvimport.NewRowError(row, domainErr.Details["field"], domainErr.Code, domainErr.Message)
	}
	return csvimport.NewRowError(row, "", CodeImportRowFailed, err.Error())
}

func toErrorDetails(errs []csvimport.RowError) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, len(errs))
	for i, e := range errs {
		details[i] = bulk.ImportErrorDetail{
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
			Value:   e.Value,
		}
	}
	return details
}
