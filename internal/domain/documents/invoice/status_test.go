package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/apperror"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"1", StatusDraft},
		{"2", StatusSent},
		{"3", StatusViewed},
		{"4", StatusPaid},
		{"5", StatusOverdue},
		{"6", StatusCancelled},
		{"paid", StatusPaid},
		{"PAID", StatusPaid},
		{" overdue ", StatusOverdue},
		{"canceled", StatusCancelled}, // US spelling alias
		{"cancelled", StatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.raw)
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestParseStatus_UnknownIsError(t *testing.T) {
	for _, raw := range []string{"99", "pending", ""} {
		_, err := ParseStatus(raw)
		require.Error(t, err, "raw %q", raw)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnknownStatus, appErr.Code)
		assert.True(t, apperror.IsRowSkip(err))
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("").Valid())
}
