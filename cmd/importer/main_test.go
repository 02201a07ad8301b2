package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/id"
	"invoport/internal/importer"
	"invoport/internal/importer/identity"
)

func TestIDMapsRoundTrip(t *testing.T) {
	clientID := id.New()
	rateID := id.New()
	reports := []*importer.PhaseReport{
		{Phase: "clients", IDMap: identity.Map{5: clientID}},
		{Phase: "tax_rates", IDMap: identity.Map{1: rateID}},
		{Phase: "invoice_items"}, // no map
	}

	path := filepath.Join(t.TempDir(), "ids.json")
	require.NoError(t, writeIDMaps(path, reports))

	maps, err := loadIDMaps(path)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, clientID, maps[identity.Clients][5])
	assert.Equal(t, rateID, maps[identity.TaxRates][1])
}

func TestLoadIDMaps_EmptyPath(t *testing.T) {
	maps, err := loadIDMaps("")
	require.NoError(t, err)
	assert.Nil(t, maps)
}
