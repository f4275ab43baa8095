package invoicing

import (
	"fmt"

	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// Error codes raised by the invoicing domain
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidAmount     = "INVALID_AMOUNT"
)

// ErrInvalidTransition matches any rejected status transition via errors.Is
var ErrInvalidTransition = shared.NewDomainError(CodeInvalidTransition, "Invalid invoice status transition")

// NewInvalidTransitionError reports a rejected from/to pair
func NewInvalidTransitionError(from, to InvoiceStatus) *shared.DomainError {
	return shared.NewDomainError(
		CodeInvalidTransition,
		fmt.Sprintf("Cannot change invoice status from %s to %s", from, to),
	).WithDetail("from", from.String()).WithDetail("to", to.String())
}

// NewInvalidStatusError reports a value outside the status enum
func NewInvalidStatusError(raw string) *shared.DomainError {
	return shared.NewDomainErrorf(CodeInvalidStatus, "Unknown invoice status %q", raw).
		WithDetail("status", raw)
}
