package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/id"
)

func TestSession_RecordResolve(t *testing.T) {
	sess := NewSession()
	clientID := id.New()
	sess.Record(Clients, 5, clientID)

	got, ok := sess.Resolve(Clients, 5)
	require.True(t, ok)
	assert.Equal(t, clientID, got)

	_, ok = sess.Resolve(Clients, 999)
	assert.False(t, ok)

	// kinds are isolated
	_, ok = sess.Resolve(Products, 5)
	assert.False(t, ok)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	sess := NewSession()
	sess.Record(Units, 1, id.New())

	snap := sess.Snapshot(Units)
	require.Len(t, snap, 1)

	snap[2] = id.New()
	assert.Equal(t, 1, sess.Len(Units))
}

func TestSession_Attach(t *testing.T) {
	external := Map{7: id.New()}

	sess := NewSession()
	sess.Attach(TaxRates, external)

	got, ok := sess.Resolve(TaxRates, 7)
	require.True(t, ok)
	assert.Equal(t, external[7], got)

	// mutating the source map must not leak into the session
	external[8] = id.New()
	_, ok = sess.Resolve(TaxRates, 8)
	assert.False(t, ok)
}
