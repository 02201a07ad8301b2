package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
)

func TestInvoiceValidate(t *testing.T) {
	ctx := context.Background()

	inv := New(id.New(), id.New(), "INV-001")
	require.NoError(t, inv.Validate(ctx))

	t.Run("missing number", func(t *testing.T) {
		bad := New(id.New(), id.New(), "")
		err := bad.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsRowSkip(err))
	})

	t.Run("missing client", func(t *testing.T) {
		bad := New(id.New(), id.Nil(), "INV-002")
		require.Error(t, bad.Validate(ctx))
	})

	t.Run("due before issue", func(t *testing.T) {
		bad := New(id.New(), id.New(), "INV-003")
		bad.IssueDate = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		bad.DueDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		require.Error(t, bad.Validate(ctx))
	})

	t.Run("dates absent is fine", func(t *testing.T) {
		ok := New(id.New(), id.New(), "INV-004")
		require.NoError(t, ok.Validate(ctx))
	})
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()

	item := &Item{ID: id.New(), InvoiceID: id.New(), Name: "Consulting"}
	require.NoError(t, item.Validate(ctx))

	item.Name = ""
	require.Error(t, item.Validate(ctx))

	item.Name = "Consulting"
	item.Quantity = decimal.NewFromInt(-1)
	err := item.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsRowSkip(err))
}
