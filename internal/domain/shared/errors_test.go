package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load invoice: %w", NewDomainError("NOT_FOUND", "Invoice not found"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("different code does not match", func(t *testing.T) {
		err := NewDomainError("HAS_CHILDREN", "Group has children")
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func TestDomainError_WithDetail(t *testing.T) {
	base := NewDomainError("INVALID_TRANSITION", "Cannot move")
	withFrom := base.WithDetail("from", "void")
	withTo := withFrom.WithDetail("to", "draft")

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"from": "void"}, withFrom.Details)
	assert.Equal(t, map[string]string{"from": "void", "to": "draft"}, withTo.Details)
}

func TestFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 40, f.Offset())

	g := f.With("status", "draft")
	assert.Equal(t, "draft", g.Filters["status"])
	assert.NotContains(t, f.Filters, "status")
}
