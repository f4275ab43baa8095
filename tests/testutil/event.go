package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// MockEventHandler records the events it receives. It can be made to fail
// or panic to exercise a bus's error isolation.
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

// NewMockEventHandler creates a handler subscribed to eventTypes, or to
// every event when none are given
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler
func (h *MockEventHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, ev)
	return h.err
}

// Handled returns a copy of the received events
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// HandledTypes returns the event type of each received event, in order
func (h *MockEventHandler) HandledTypes() []string {
	events := h.Handled()
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.EventType()
	}
	return out
}

// HandledCount returns the number of received events
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// FailWith makes Handle record the event and return err
func (h *MockEventHandler) FailWith(err error) *MockEventHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
	return h
}

// PanicWith makes Handle panic with v instead of recording
func (h *MockEventHandler) PanicWith(v any) *MockEventHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panicWith = v
	return h
}

var _ shared.EventHandler = (*MockEventHandler)(nil)

// NewTestEvent creates a bare event of eventType for tenantID
func NewTestEvent(eventType string, tenantID uuid.UUID) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New(), tenantID)
	return &ev
}

// WaitForEventCount waits until handler has received at least count events
func WaitForEventCount(t *testing.T, handler *MockEventHandler, count int, timeout time.Duration) bool {
	t.Helper()
	return WaitForCondition(t, func() bool {
		return handler.HandledCount() >= count
	}, timeout, 10*time.Millisecond)
}
