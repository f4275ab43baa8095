package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_SetsLabels(t *testing.T) {
	tenantID := uuid.New().String()
	var route, method, tenant string

	router := gin.New()
	router.Use(Tenant(DefaultTenantConfig()), Profiling(true))
	router.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ = pprof.Label(ctx, "route")
		method, _ = pprof.Label(ctx, "method")
		tenant, _ = pprof.Label(ctx, "tenant_id")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/7", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/invoices/:id", route)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, tenantID, tenant)
}

func TestProfiling_SkipsHealthAndDisabled(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		var labelled bool
		router := gin.New()
		router.Use(Profiling(enabled))
		handler := func(c *gin.Context) {
			_, labelled = pprof.Label(c.Request.Context(), "route")
			c.Status(http.StatusOK)
		}
		router.GET("/health", handler)
		router.GET("/api/v1/ok", handler)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.False(t, labelled)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ok", nil))
		assert.Equal(t, enabled, labelled)
	}
}
