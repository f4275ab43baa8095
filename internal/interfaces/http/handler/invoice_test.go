package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	invoicingapp "github.com/ledgerdesk/backend/internal/application/invoicing"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/backend/tests/testutil"
)

func createInvoice(t *testing.T, f *apiFixture, number string) invoicingapp.InvoiceResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/invoices", map[string]any{
		"invoice_number":  number,
		"customer_name":   "Acme Traders",
		"subtotal":        "1000.00",
		"tax_percent":     "18",
		"discount_amount": "100.00",
		"issue_date":      "2025-04-01T00:00:00Z",
		"due_date":        "2025-05-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[invoicingapp.InvoiceResponse](t, w)
}

func TestInvoiceHandler_Create(t *testing.T) {
	f := newAPIFixture(t)

	inv := createInvoice(t, f, "INV-001")
	assert.Equal(t, "draft", inv.Status)
	assert.Equal(t, f.tenantID, inv.TenantID)
	assert.True(t, decimal.RequireFromString("1080").Equal(inv.TotalAmount), inv.TotalAmount.String())
	assert.True(t, inv.TotalAmount.Equal(inv.AmountDue))

	t.Run("duplicate number conflicts", func(t *testing.T) {
		w := f.do(http.MethodPost, "/invoices", map[string]any{
			"invoice_number": "INV-001",
			"customer_name":  "Other",
			"subtotal":       "10",
			"issue_date":     "2025-04-01T00:00:00Z",
		})
		testutil.RequireErrorCode(t, w, http.StatusConflict, "ALREADY_EXISTS")
	})

	t.Run("missing customer fails validation", func(t *testing.T) {
		w := f.do(http.MethodPost, "/invoices", map[string]any{
			"subtotal":   "10",
			"issue_date": "2025-04-01T00:00:00Z",
		})
		testutil.RequireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("missing tenant is rejected", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/invoices", map[string]any{"customer_name": "x"})
		w := f.send(req)
		testutil.RequireErrorCode(t, w, http.StatusUnauthorized, "TENANT_REQUIRED")
	})
}

func TestInvoiceHandler_Transition(t *testing.T) {
	f := newAPIFixture(t)
	inv := createInvoice(t, f, "INV-100")
	path := "/invoices/" + inv.ID.String() + "/status"

	t.Run("draft to paid is illegal", func(t *testing.T) {
		w := f.do(http.MethodPost, path, map[string]string{"status": "paid"})
		info := testutil.RequireErrorCode(t, w, http.StatusConflict, invoicing.CodeInvalidTransition)
		assert.Equal(t, "draft", info.Details["from"])
		assert.Equal(t, "paid", info.Details["to"])
	})

	t.Run("unknown status", func(t *testing.T) {
		w := f.do(http.MethodPost, path, map[string]string{"status": "archived"})
		info := testutil.RequireErrorCode(t, w, http.StatusBadRequest, invoicing.CodeInvalidStatus)
		assert.Equal(t, "archived", info.Details["status"])
	})

	t.Run("status is required", func(t *testing.T) {
		w := f.do(http.MethodPost, path, map[string]string{})
		testutil.RequireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("draft to approved", func(t *testing.T) {
		w := f.do(http.MethodPost, path, map[string]string{"status": "approved"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := testutil.DecodeData[invoicingapp.InvoiceResponse](t, w)
		assert.Equal(t, "approved", updated.Status)
		assert.NotNil(t, updated.StatusChangedAt)
	})

	t.Run("other tenant cannot see the invoice", func(t *testing.T) {
		w := f.doAs(uuid.New(), http.MethodPost, path, map[string]string{"status": "void"})
		testutil.RequireErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")

		w = f.doAs(uuid.New(), http.MethodGet, "/invoices/"+inv.ID.String(), nil)
		testutil.RequireErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("bad id", func(t *testing.T) {
		w := f.do(http.MethodPost, "/invoices/not-a-uuid/status", map[string]string{"status": "sent"})
		testutil.RequireErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})
}

func TestInvoiceHandler_AllowedTransitions(t *testing.T) {
	f := newAPIFixture(t)
	inv := createInvoice(t, f, "INV-200")

	w := f.do(http.MethodGet, "/invoices/"+inv.ID.String()+"/transitions", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := testutil.DecodeData[invoicingapp.AllowedTransitionsResponse](t, w)
	assert.Equal(t, "draft", resp.Current)
	assert.ElementsMatch(t, []string{"approved", "sent", "canceled", "void"}, resp.Allowed)
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	f := newAPIFixture(t)
	inv := createInvoice(t, f, "INV-300")
	base := "/invoices/" + inv.ID.String()

	w := f.do(http.MethodPost, base+"/payments", map[string]string{"amount": "100"})
	testutil.RequireErrorCode(t, w, http.StatusConflict, invoicing.CodeInvalidTransition)

	w = f.do(http.MethodPost, base+"/status", map[string]string{"status": "sent"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodPost, base+"/payments", map[string]string{"amount": "0"})
	testutil.RequireErrorCode(t, w, http.StatusBadRequest, invoicing.CodeInvalidAmount)

	w = f.do(http.MethodPost, base+"/payments", map[string]string{"amount": "80"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	partial := testutil.DecodeData[invoicingapp.InvoiceResponse](t, w)
	assert.Equal(t, "partially_paid", partial.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(partial.AmountDue), partial.AmountDue.String())

	w = f.do(http.MethodPost, base+"/payments", map[string]string{"amount": "1000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", testutil.DecodeData[invoicingapp.InvoiceResponse](t, w).Status)
}

func TestInvoiceHandler_ListAndSummary(t *testing.T) {
	f := newAPIFixture(t)
	for _, n := range []string{"INV-A", "INV-B", "INV-C"} {
		createInvoice(t, f, n)
	}
	createInvoiceFor := uuid.New()
	w := f.doAs(createInvoiceFor, http.MethodPost, "/invoices", map[string]any{
		"customer_name": "Elsewhere",
		"subtotal":      "5",
		"issue_date":    "2025-04-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/invoices?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := testutil.Decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(3), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.PageSize)
	assert.Equal(t, 2, env.Meta.TotalPages)

	w = f.do(http.MethodGet, "/invoices?status=bogus", nil)
	testutil.RequireErrorCode(t, w, http.StatusBadRequest, invoicing.CodeInvalidStatus)

	w = f.do(http.MethodGet, "/invoices/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := testutil.DecodeData[invoicing.ReceivablesSummary](t, w)
	assert.Equal(t, int64(3), summary.InvoiceCount)
	assert.Len(t, summary.ByStatus, len(invoicing.AllStatuses()))
}
