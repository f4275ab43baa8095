package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/infrastructure/auth"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantRouter(jwt *auth.JWTService, cfg TenantConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	if jwt != nil {
		router.Use(JWTAuth(DefaultJWTConfig(jwt)))
	}
	router.Use(Tenant(cfg))
	router.GET("/api/v1/accounts", func(c *gin.Context) {
		id, ok := GetTenantUUID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String()+"|"+logger.GetTenantID(c.Request.Context()))
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestTenant_HeaderOnly(t *testing.T) {
	router := tenantRouter(nil, DefaultTenantConfig())
	tenantID := uuid.New().String()

	t.Run("header sets tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(TenantHeaderKey, tenantID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID+"|"+tenantID, w.Body.String())
	})

	t.Run("missing tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTenantMissing, decodeError(t, w).Code)
	})

	t.Run("malformed tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(TenantHeaderKey, "acme")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("upper-case header is stored canonically", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(TenantHeaderKey, strings.ToUpper(tenantID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID+"|"+tenantID, w.Body.String())
	})

	t.Run("skip path", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTenant_WithJWT(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	tenantID := uuid.New()
	token, _, err := svc.GenerateAccessToken(auth.GenerateTokenInput{TenantID: tenantID})
	require.NoError(t, err)

	t.Run("token tenant wins", func(t *testing.T) {
		router := tenantRouter(svc, DefaultTenantConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID.String())
	})

	t.Run("matching header is accepted", func(t *testing.T) {
		router := tenantRouter(svc, DefaultTenantConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("upper-case header naming the token tenant is accepted", func(t *testing.T) {
		router := tenantRouter(svc, DefaultTenantConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		req.Header.Set(TenantHeaderKey, strings.ToUpper(tenantID.String()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String()+"|"+tenantID.String(), w.Body.String())
	})

	t.Run("malformed header with token is forbidden", func(t *testing.T) {
		router := tenantRouter(svc, DefaultTenantConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		req.Header.Set(TenantHeaderKey, "acme")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, ErrCodeTenantMismatch, decodeError(t, w).Code)
	})

	t.Run("mismatching header is forbidden", func(t *testing.T) {
		router := tenantRouter(svc, DefaultTenantConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		req.Header.Set(TenantHeaderKey, uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, ErrCodeTenantMismatch, decodeError(t, w).Code)
	})

	t.Run("header ignored when disabled", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.HeaderEnabled = false
		router := gin.New()
		router.Use(Tenant(cfg))
		router.GET("/api/v1/accounts", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
