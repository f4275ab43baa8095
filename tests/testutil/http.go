package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/backend/internal/interfaces/http/dto"
	"github.com/ledgerdesk/backend/internal/interfaces/http/middleware"
)

// Envelope is a decoded API response with the data left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// Decode parses the response envelope
func Decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// DecodeData requires a successful envelope and decodes its data into T
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := Decode(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

// RequireErrorCode requires an error envelope with the given status and
// code and returns its error object
func RequireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := Decode(t, w)
	require.False(t, env.Success, w.Body.String())
	require.NotNil(t, env.Error, w.Body.String())
	require.Equal(t, code, env.Error.Code, w.Body.String())
	return env.Error
}

// JSONBody marshals v into a request body
func JSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}

// HTTPTestCase is one request against a routed handler. A non-nil TenantID
// is sent in the tenant header. ExpectedCode, when set, is the error code
// the envelope must carry.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	TenantID       uuid.UUID
	Body           any
	RawBody        string
	Headers        map[string]string
	ExpectedStatus int
	ExpectedCode   string
	Validate       func(t *testing.T, w *httptest.ResponseRecorder)
}

// RunHTTPTestCases runs each case as a subtest against h
func RunHTTPTestCases(t *testing.T, h http.Handler, cases []HTTPTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, h, tc)
		})
	}
}

// RunHTTPTestCase sends one case to h, checks the status and error code and
// runs the case's own validation
func RunHTTPTestCase(t *testing.T, h http.Handler, tc HTTPTestCase) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch {
	case tc.Body != nil:
		body = JSONBody(t, tc.Body)
	case tc.RawBody != "":
		body = bytes.NewBufferString(tc.RawBody)
	}

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, tc.Path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.TenantID != uuid.Nil {
		req.Header.Set(middleware.TenantHeaderKey, tc.TenantID.String())
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, w.Code, w.Body.String())
	}
	if tc.ExpectedCode != "" {
		env := Decode(t, w)
		if assert.NotNil(t, env.Error, w.Body.String()) {
			assert.Equal(t, tc.ExpectedCode, env.Error.Code)
		}
	}
	if tc.Validate != nil {
		tc.Validate(t, w)
	}
	return w
}
