package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing("ledgerdesk-test", false))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_EnrichesAndMarksErrors(t *testing.T) {
	sr := setupTestTracer(t)
	tenantID := uuid.New().String()

	router := gin.New()
	router.Use(RequestID(), Tracing("ledgerdesk-test", true), SpanErrorMarker(), Tenant(DefaultTenantConfig()), SpanEnricher())
	router.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		c.Set(ErrorCodeKey, "NOT_FOUND")
		c.Status(http.StatusNotFound)
	})
	router.GET("/api/v1/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/42", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.Equal(t, tenantID, attrs[telemetry.AttrTenantID].AsString())
	assert.NotEmpty(t, attrs["request_id"].AsString())
	assert.Equal(t, "NOT_FOUND", attrs["error.code"].AsString())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ok", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans = sr.Ended()
	require.Len(t, spans, 2)
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}
