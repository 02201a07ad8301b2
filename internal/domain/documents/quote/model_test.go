package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
)

func TestConvertToInvoice(t *testing.T) {
	q := New(id.New(), id.New(), "Q-100")
	q.StatusID = StatusApproved

	invID := id.New()
	require.NoError(t, q.ConvertToInvoice(invID))
	assert.Equal(t, StatusConverted, q.StatusID)
	require.NotNil(t, q.InvoiceID)
	assert.Equal(t, invID, *q.InvoiceID)
}

func TestConvertToInvoice_AlreadyConverted(t *testing.T) {
	q := New(id.New(), id.New(), "Q-100")
	q.StatusID = StatusConverted

	err := q.ConvertToInvoice(id.New())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestConvertToInvoice_Rejected(t *testing.T) {
	q := New(id.New(), id.New(), "Q-100")
	q.StatusID = StatusRejected

	err := q.ConvertToInvoice(id.New())
	require.Error(t, err)
	assert.Nil(t, q.InvoiceID)
	assert.Equal(t, StatusRejected, q.StatusID)
}

func TestQuoteValidate(t *testing.T) {
	ctx := context.Background()

	q := New(id.New(), id.New(), "Q-1")
	require.NoError(t, q.Validate(ctx))

	t.Run("valid-until before issue", func(t *testing.T) {
		bad := New(id.New(), id.New(), "Q-2")
		bad.IssueDate = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
		bad.ValidUntil = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		require.Error(t, bad.Validate(ctx))
	})

	t.Run("missing number", func(t *testing.T) {
		bad := New(id.New(), id.New(), "")
		require.Error(t, bad.Validate(ctx))
	})
}
