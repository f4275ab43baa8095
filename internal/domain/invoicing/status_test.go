package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var expectedEdges = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:         {StatusApproved, StatusSent, StatusCanceled, StatusVoid},
	StatusSent:          {StatusApproved, StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCanceled, StatusVoid},
	StatusApproved:      {StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCanceled, StatusVoid},
	StatusPartiallyPaid: {StatusPaid, StatusOverdue, StatusVoid},
	StatusOverdue:       {StatusPaid, StatusPartiallyPaid, StatusVoid},
	StatusPaid:          {StatusVoid},
	StatusCanceled:      {StatusDraft},
	StatusVoid:          {},
}

func isEdge(from, to InvoiceStatus) bool {
	for _, s := range expectedEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func TestCanTransition_FullMatrix(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := isEdge(from, to)
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_SelfTransitionsRejected(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.False(t, CanTransition(s, s), string(s))
	}
}

func TestCanTransition_VoidIsTerminal(t *testing.T) {
	for _, to := range AllStatuses() {
		assert.False(t, CanTransition(StatusVoid, to))
	}
	assert.True(t, StatusVoid.IsTerminal())
	assert.False(t, StatusPaid.IsTerminal())
	assert.Empty(t, AllowedTransitions(StatusVoid))
}

func TestCanTransition_UnknownValues(t *testing.T) {
	assert.False(t, CanTransition("archived", StatusDraft))
	assert.False(t, CanTransition(StatusDraft, "archived"))
	assert.False(t, CanTransition("", ""))
}

func TestCanTransition_ReverseDirectionRejected(t *testing.T) {
	assert.True(t, CanTransition(StatusCanceled, StatusDraft))
	assert.True(t, CanTransition(StatusDraft, StatusCanceled))
	assert.False(t, CanTransition(StatusPaid, StatusSent))
	assert.False(t, CanTransition(StatusApproved, StatusSent))
	assert.False(t, CanTransition(StatusPartiallyPaid, StatusApproved))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("partially_paid")
	assert.True(t, ok)
	assert.Equal(t, StatusPartiallyPaid, s)

	_, ok = ParseStatus("PAID")
	assert.False(t, ok)
}

func TestAllowedTransitions_Sorted(t *testing.T) {
	assert.Equal(t,
		[]InvoiceStatus{StatusApproved, StatusCanceled, StatusSent, StatusVoid},
		AllowedTransitions(StatusDraft))
}

func TestAllowsPayment(t *testing.T) {
	assert.False(t, StatusDraft.AllowsPayment())
	assert.True(t, StatusSent.AllowsPayment())
	assert.True(t, StatusApproved.AllowsPayment())
	assert.True(t, StatusPartiallyPaid.AllowsPayment())
	assert.True(t, StatusOverdue.AllowsPayment())
	assert.False(t, StatusPaid.AllowsPayment())
	assert.False(t, StatusCanceled.AllowsPayment())
	assert.False(t, StatusVoid.AllowsPayment())
}
