package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	accountingapp "github.com/ledgerdesk/backend/internal/application/accounting"
	importapp "github.com/ledgerdesk/backend/internal/application/import"
	invoicingapp "github.com/ledgerdesk/backend/internal/application/invoicing"
	"github.com/ledgerdesk/backend/internal/infrastructure/event"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/ledgerdesk/backend/internal/infrastructure/storage"
	"github.com/ledgerdesk/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiFixture wires the handlers to sqlite-backed services behind the
// request id and tenant middleware
type apiFixture struct {
	engine   *gin.Engine
	tenantID uuid.UUID
	archive  *storage.InMemoryObjectStorage
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	log := zap.NewNop()
	groups := persistence.NewGormGroupRepository(db)
	accounts := persistence.NewGormAccountRepository(db)
	history := persistence.NewGormImportHistoryRepository(db)
	archive := storage.NewInMemoryObjectStorage()

	invoices := invoicingapp.NewInvoiceService(persistence.NewGormInvoiceRepository(db), event.NewInMemoryEventBus(log),
		invoicingapp.WithLogger(log))
	importService := importapp.NewAccountImportService(groups, accounts, history, importapp.DefaultOptions(),
		importapp.WithArchive(archive), importapp.WithLogger(log))

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Tenant(middleware.DefaultTenantConfig()))

	invoiceHandler := NewInvoiceHandler(invoices)
	engine.POST("/invoices", invoiceHandler.Create)
	engine.GET("/invoices", invoiceHandler.List)
	engine.GET("/invoices/summary", invoiceHandler.Summary)
	engine.GET("/invoices/:id", invoiceHandler.Get)
	engine.GET("/invoices/:id/transitions", invoiceHandler.AllowedTransitions)
	engine.POST("/invoices/:id/status", invoiceHandler.Transition)
	engine.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)

	coa := NewChartOfAccountsHandler(
		accountingapp.NewGroupService(groups, accounts, log),
		accountingapp.NewAccountService(accounts, groups, log),
	)
	imports := NewAccountImportHandler(importService,
		importapp.NewImportHistoryService(history, archive, 0, log), 64*1024)
	engine.GET("/coa/tree", coa.Tree)
	engine.GET("/coa/export", coa.Export)
	engine.POST("/coa/csv-upload", imports.Upload)
	engine.POST("/coa/csv-import", imports.Import)
	engine.GET("/coa/imports", imports.ListImports)
	engine.GET("/coa/imports/:id", imports.GetImport)
	engine.GET("/coa/imports/:id/errors", imports.ErrorReport)
	engine.POST("/coa/:level", coa.Create)
	engine.GET("/coa/:level", coa.List)
	engine.GET("/coa/:level/:id", coa.Get)
	engine.PUT("/coa/:level/:id", coa.Update)
	engine.DELETE("/coa/:level/:id", coa.Delete)

	engine.GET("/compliance/period-label", NewComplianceHandler().PeriodLabel)

	return &apiFixture{engine: engine, tenantID: uuid.New(), archive: archive}
}

// do sends a request as the fixture's tenant
func (f *apiFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	return f.doAs(f.tenantID, method, path, body)
}

func (f *apiFixture) doAs(tenantID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.TenantHeaderKey, tenantID.String())
	return f.send(req)
}

func (f *apiFixture) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func newJSONRequest(method, path string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}
