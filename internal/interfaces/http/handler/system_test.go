package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/backend/tests/testutil"
)

func systemRouter(h *SystemHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/health/ready", h.Ready)
	return r
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("ledgerdesk", "1.2.3")
	w := httptest.NewRecorder()
	systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := testutil.DecodeData[HealthResponse](t, w)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ledgerdesk", resp.Name)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.GoVersion)
}

func TestSystemHandler_Ready(t *testing.T) {
	ok := ReadinessCheck{Name: "database", Check: func(context.Context) error { return nil }}

	t.Run("all checks pass", func(t *testing.T) {
		w := httptest.NewRecorder()
		systemRouter(NewSystemHandler("ledgerdesk", "dev", ok)).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.DecodeData[ReadinessResponse](t, w)
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("failing check makes the service unavailable", func(t *testing.T) {
		failing := ReadinessCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}
		w := httptest.NewRecorder()
		systemRouter(NewSystemHandler("ledgerdesk", "dev", ok, failing)).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Success bool              `json:"success"`
			Data    ReadinessResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "not_ready", body.Data.Status)
		assert.Equal(t, "ok", body.Data.Checks["database"])
		assert.Equal(t, "connection refused", body.Data.Checks["redis"])
	})

	t.Run("check sees a deadline", func(t *testing.T) {
		var hasDeadline bool
		check := ReadinessCheck{Name: "clock", Check: func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}}
		w := httptest.NewRecorder()
		systemRouter(NewSystemHandler("ledgerdesk", "dev", check)).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})
}
