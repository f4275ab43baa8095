package invoicing

import "sort"

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "draft"
	StatusSent          InvoiceStatus = "sent"
	StatusApproved      InvoiceStatus = "approved"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusPaid          InvoiceStatus = "paid"
	StatusCanceled      InvoiceStatus = "canceled"
	StatusVoid          InvoiceStatus = "void"
)

// transitions is the complete set of legal status edges. A pair that is
// not listed here is illegal, including every self-transition.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:         {StatusApproved, StatusSent, StatusCanceled, StatusVoid},
	StatusSent:          {StatusApproved, StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCanceled, StatusVoid},
	StatusApproved:      {StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCanceled, StatusVoid},
	StatusPartiallyPaid: {StatusPaid, StatusOverdue, StatusVoid},
	StatusOverdue:       {StatusPaid, StatusPartiallyPaid, StatusVoid},
	StatusPaid:          {StatusVoid},
	StatusCanceled:      {StatusDraft},
	StatusVoid:          {},
}

// AllStatuses returns every defined status in lifecycle order
func AllStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		StatusDraft,
		StatusSent,
		StatusApproved,
		StatusPartiallyPaid,
		StatusOverdue,
		StatusPaid,
		StatusCanceled,
		StatusVoid,
	}
}

// ParseStatus converts a raw value into a known status
func ParseStatus(s string) (InvoiceStatus, bool) {
	status := InvoiceStatus(s)
	_, ok := transitions[status]
	return status, ok
}

// IsValid reports whether the status is one of the defined values
func (s InvoiceStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves this status
func (s InvoiceStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// AllowsPayment reports whether a payment may be recorded in this status
func (s InvoiceStatus) AllowsPayment() bool {
	return CanTransition(s, StatusPaid)
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransition reports whether moving from one status to another is legal
func CanTransition(from, to InvoiceStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s in one step,
// sorted for stable output.
func AllowedTransitions(s InvoiceStatus) []InvoiceStatus {
	next := append([]InvoiceStatus(nil), transitions[s]...)
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}
