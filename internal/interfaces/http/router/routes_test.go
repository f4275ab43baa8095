package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ledgerdesk/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedEngine(t *testing.T, apiMiddleware ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	engine := gin.New()
	require.NotPanics(t, func() {
		Mount(engine, Handlers{
			Invoices:        handler.NewInvoiceHandler(nil),
			ChartOfAccounts: handler.NewChartOfAccountsHandler(nil, nil),
			AccountImports:  handler.NewAccountImportHandler(nil, nil, 0),
			Compliance:      handler.NewComplianceHandler(),
			System:          handler.NewSystemHandler("ledgerdesk", "test"),
		}, apiMiddleware...)
	})
	return engine
}

func TestMount_RegistersRouteTable(t *testing.T) {
	engine := mountedEngine(t)

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /health/ready",
		"GET /api/v1/health",
		"GET /api/v1/health/ready",
		"POST /api/v1/invoices",
		"GET /api/v1/invoices",
		"GET /api/v1/invoices/summary",
		"GET /api/v1/invoices/:id",
		"GET /api/v1/invoices/:id/transitions",
		"POST /api/v1/invoices/:id/status",
		"POST /api/v1/invoices/:id/payments",
		"GET /api/v1/chart-of-accounts/tree",
		"GET /api/v1/chart-of-accounts/export",
		"POST /api/v1/chart-of-accounts/csv-upload",
		"POST /api/v1/chart-of-accounts/csv-import",
		"GET /api/v1/chart-of-accounts/imports",
		"GET /api/v1/chart-of-accounts/imports/:id",
		"GET /api/v1/chart-of-accounts/imports/:id/errors",
		"POST /api/v1/chart-of-accounts/:level",
		"GET /api/v1/chart-of-accounts/:level",
		"GET /api/v1/chart-of-accounts/:level/:id",
		"PUT /api/v1/chart-of-accounts/:level/:id",
		"DELETE /api/v1/chart-of-accounts/:level/:id",
		"GET /api/v1/compliance/period-label",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestMount_ServesHealthAndCompliance(t *testing.T) {
	engine := mountedEngine(t)

	for _, path := range []string{"/health", "/api/v1/health/ready"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/compliance/period-label?frequency=quarterly&start=2025-04-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Q2 2025"`)
}

func TestMount_APIMiddlewareGuardsVersionedRoutes(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	engine := mountedEngine(t, deny)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
