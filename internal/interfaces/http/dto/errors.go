package dto

import "net/http"

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were raised with.
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeTooLarge      = "REQUEST_TOO_LARGE"
	ErrCodeTenantMissing = "TENANT_REQUIRED"
	ErrCodeTokenExpired  = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid  = "INVALID_TOKEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// from the table are answered with 500.
var ErrorCodeHTTPStatus = map[string]int{
	// Request and input errors
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInvalidJSON:         http.StatusBadRequest,
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_STATUS":           http.StatusBadRequest,
	"INVALID_AMOUNT":           http.StatusBadRequest,
	"INVALID_LEVEL":            http.StatusBadRequest,
	"INVALID_FREQUENCY":        http.StatusBadRequest,
	"INVALID_STRICTNESS":       http.StatusBadRequest,
	"INVALID_CONFLICT_MODE":    http.StatusBadRequest,
	"INVALID_FILE_NAME":        http.StatusBadRequest,
	"MISSING_REQUIRED_COLUMNS": http.StatusBadRequest,
	"INVALID_ENCODING":         http.StatusBadRequest,
	"EMPTY_FILE":               http.StatusBadRequest,
	"TOO_MANY_ROWS":            http.StatusBadRequest,
	"NO_ERRORS":                http.StatusNotFound,
	ErrCodeTooLarge:            http.StatusRequestEntityTooLarge,
	"FILE_TOO_LARGE":           http.StatusRequestEntityTooLarge,

	// Tenant and auth errors
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeTenantMissing: http.StatusUnauthorized,
	ErrCodeTokenExpired:  http.StatusUnauthorized,
	ErrCodeTokenInvalid:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	"TENANT_MISMATCH":    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:    http.StatusNotFound,
	"PARENT_NOT_FOUND": http.StatusNotFound,

	// Conflicts with the stored state
	"ALREADY_EXISTS":           http.StatusConflict,
	"DUPLICATE_CODE":           http.StatusConflict,
	"INVALID_TRANSITION":       http.StatusConflict,
	"INVALID_STATE":            http.StatusConflict,
	"HAS_CHILDREN":             http.StatusConflict,
	"SYSTEM_ACCOUNT_PROTECTED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,

	// Business rule errors
	"UNRESOLVED_GROUP": http.StatusUnprocessableEntity,
	"AMBIGUOUS_GROUP":  http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
