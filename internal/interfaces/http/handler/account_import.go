package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	importapp "github.com/ledgerdesk/backend/internal/application/import"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/ledgerdesk/backend/internal/domain/shared"
	csvimport "github.com/ledgerdesk/backend/internal/infrastructure/import"
	"github.com/ledgerdesk/backend/internal/interfaces/http/dto"
)

// AccountImportHandler serves the bulk account import endpoints and the
// import history of the chart of accounts
type AccountImportHandler struct {
	BaseHandler
	importService  *importapp.AccountImportService
	historyService *importapp.ImportHistoryService
	maxBytes       int64
}

// NewAccountImportHandler creates a new AccountImportHandler. maxBytes caps
// uploaded files; zero or less disables the cap.
func NewAccountImportHandler(importService *importapp.AccountImportService, historyService *importapp.ImportHistoryService, maxBytes int64) *AccountImportHandler {
	return &AccountImportHandler{
		importService:  importService,
		historyService: historyService,
		maxBytes:       maxBytes,
	}
}

// importModeQuery holds per-run overrides of the configured import modes
type importModeQuery struct {
	Strictness   string `form:"strictness"`
	ConflictMode string `form:"conflict_mode"`
}

func (q importModeQuery) overrides() importapp.Overrides {
	return importapp.Overrides{
		Strictness:   bulk.Strictness(q.Strictness),
		ConflictMode: bulk.ConflictMode(q.ConflictMode),
	}
}

// Upload godoc
// @ID           uploadAccounts
// @Summary      Import client-parsed accounts
// @Description  Rows are resolved against the tenant's groups by name. Each row is stored independently; failures are reported per row.
// @Tags         chart-of-accounts
// @Accept       json
// @Produce      json
// @Param        strictness    query string                   false "strict or lenient"
// @Param        conflict_mode query string                   false "insert, skip or update"
// @Param        request       body  importapp.AccountPayload true  "Accounts"
// @Success      200 {object} APIResponse[importapp.AccountImportResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/csv-upload [post]
func (h *AccountImportHandler) Upload(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var q importModeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	var payload importapp.AccountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.importService.ImportPayload(c.Request.Context(), tenantID, userID(c), payload, q.overrides())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Import godoc
// @ID           importAccountsCSV
// @Summary      Import accounts from a CSV file
// @Description  Accepts a multipart "file" field or a raw text/csv body. Required columns: Account Name, Element Group, Sub Element Group, Detailed Group.
// @Tags         chart-of-accounts
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        file          formData file   false "CSV file"
// @Param        strictness    query    string false "strict or lenient"
// @Param        conflict_mode query    string false "insert, skip or update"
// @Success      200 {object} APIResponse[importapp.AccountImportResult]
// @Failure      400 {object} ErrorResponse "MISSING_REQUIRED_COLUMNS"
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/csv-import [post]
func (h *AccountImportHandler) Import(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var q importModeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	fileName, data, err := h.readUpload(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.importService.ImportFile(c.Request.Context(), tenantID, userID(c), fileName, data, q.overrides())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// readUpload returns the uploaded CSV from a multipart "file" field or,
// for text/csv requests, from the body
func (h *AccountImportHandler) readUpload(c *gin.Context) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))

	var (
		fileName string
		src      io.Reader
	)
	switch mediaType {
	case "multipart/form-data":
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			return "", nil, shared.NewDomainError(dto.ErrCodeBadRequest, "Multipart request has no \"file\" field")
		}
		defer file.Close()
		if h.maxBytes > 0 && header.Size > h.maxBytes {
			return "", nil, h.tooLarge()
		}
		fileName = filepath.Base(header.Filename)
		src = file
	case "text/csv", "text/plain", "application/csv":
		fileName = c.Query("file_name")
		src = c.Request.Body
	default:
		return "", nil, shared.NewDomainError(dto.ErrCodeBadRequest, "Send the CSV as multipart/form-data or text/csv").
			WithDetail("content_type", mediaType)
	}

	if h.maxBytes > 0 {
		src = io.LimitReader(src, h.maxBytes+1)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return "", nil, err
	}
	if h.maxBytes > 0 && int64(buf.Len()) > h.maxBytes {
		return "", nil, h.tooLarge()
	}
	if buf.Len() == 0 {
		return "", nil, csvimport.ErrEmptyFile
	}
	return fileName, buf.Bytes(), nil
}

func (h *AccountImportHandler) tooLarge() error {
	return csvimport.ErrFileTooLarge.WithDetail("max_bytes", fmt.Sprint(h.maxBytes))
}

// ListImports godoc
// @ID           listAccountImports
// @Summary      List past account imports
// @Tags         chart-of-accounts
// @Produce      json
// @Param        status    query string false "Run status"
// @Param        source    query string false "file or payload"
// @Param        page      query int    false "Page" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]importapp.ImportHistoryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/imports [get]
func (h *AccountImportHandler) ListImports(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var filter importapp.ListHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.historyService.ListImports(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list.Items, list.TotalCount, list.Page, list.PageSize)
}

// GetImport godoc
// @ID           getAccountImport
// @Summary      Get one account import
// @Description  Includes a temporary download link to the archived upload when archiving is enabled.
// @Tags         chart-of-accounts
// @Produce      json
// @Param        id path string true "Import ID"
// @Success      200 {object} APIResponse[importapp.ImportHistoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/imports/{id} [get]
func (h *AccountImportHandler) GetImport(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.historyService.GetImport(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// ErrorReport godoc
// @ID           getAccountImportErrors
// @Summary      Download the row errors of an import as CSV
// @Tags         chart-of-accounts
// @Produce      text/csv
// @Param        id path string true "Import ID"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/imports/{id}/errors [get]
func (h *AccountImportHandler) ErrorReport(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	fileName, err := h.historyService.WriteErrorReport(c.Request.Context(), tenantID, id, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
