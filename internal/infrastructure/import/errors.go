package csvimport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// Whole-file error codes
const (
	CodeMissingRequiredColumns = "MISSING_REQUIRED_COLUMNS"
	CodeInvalidEncoding        = "INVALID_ENCODING"
	CodeEmptyFile              = "EMPTY_FILE"
	CodeTooManyRows            = "TOO_MANY_ROWS"
	CodeFileTooLarge           = "FILE_TOO_LARGE"
)

// Row error codes
const (
	CodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	CodeInvalidOpeningBalance = "INVALID_OPENING_BALANCE"
	CodeInvalidLength         = "INVALID_LENGTH"
	CodeMalformedRow          = "MALFORMED_ROW"
	CodeNotProcessed          = "NOT_PROCESSED"
	CodeEmptyRow              = "EMPTY_ROW"
)

// Whole-file errors. They abort the import before any row is persisted.
var (
	ErrEmptyFile           = shared.NewDomainError(CodeEmptyFile, "CSV file is empty")
	ErrInvalidEncoding     = shared.NewDomainError(CodeInvalidEncoding, "CSV file is not valid UTF-8 and no fallback encoding applies")
	ErrMissingRequiredCols = shared.NewDomainError(CodeMissingRequiredColumns, "CSV header is missing required columns")
	ErrTooManyRows         = shared.NewDomainError(CodeTooManyRows, "CSV file exceeds the maximum number of rows")
	ErrFileTooLarge        = shared.NewDomainError(CodeFileTooLarge, "CSV file exceeds the maximum size")
)

// NewMissingColumnsError names the missing columns, in header order
func NewMissingColumnsError(missing []string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeMissingRequiredColumns,
		"Missing required columns: %s", strings.Join(missing, ", ")).
		WithDetail("columns", strings.Join(missing, ","))
}

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// NewRowErrorWithValue creates a new RowError with the invalid value
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
		Value:   value,
	}
}

// ErrorCollection manages a collection of import errors. Only the first
// maxErrors errors are kept; TotalCount still counts all of them.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequiredError adds a missing required field error
func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(NewRowError(row, column, CodeMissingRequiredField, fmt.Sprintf("field '%s' is required", column)))
}

// Errors returns the collected errors ordered by row
func (ec *ErrorCollection) Errors() []RowError {
	sort.SliceStable(ec.errors, func(i, j int) bool { return ec.errors[i].Row < ec.errors[j].Row })
	return ec.errors
}

// Count returns the number of collected errors (up to maxErrors)
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were not collected due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// Messages renders each collected error as a single line
func (ec *ErrorCollection) Messages() []string {
	errs := ec.Errors()
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// ErrorSummary returns a summary of errors by code
func (ec *ErrorCollection) ErrorSummary() map[string]int {
	summary := make(map[string]int)
	for _, err := range ec.errors {
		summary[err.Code]++
	}
	return summary
}

// String returns a string representation of all errors
func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) found", ec.totalCount))
	if ec.IsTruncated() {
		sb.WriteString(fmt.Sprintf(" (showing first %d)", ec.maxErrors))
	}
	sb.WriteString(":\n")

	for _, err := range ec.Errors() {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}

	return sb.String()
}
