package product

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSKULookup reports a SKU as taken while it is in the set.
type fakeSKULookup struct {
	taken map[string]bool
}

func (f *fakeSKULookup) SKUExists(ctx context.Context, sku string) (bool, error) {
	return f.taken[sku], nil
}

func TestGenerateSKU_PrefixFromName(t *testing.T) {
	lookup := &fakeSKULookup{}

	sku, err := GenerateSKU(context.Background(), lookup, "Widget Max")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^WID-\d{4}$`), sku)
}

func TestGenerateSKU_FallbackPrefix(t *testing.T) {
	lookup := &fakeSKULookup{}

	sku, err := GenerateSKU(context.Background(), lookup, "***")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PRD-\d{4}$`), sku)
}

func TestGenerateSKU_SkipsDigitsAndSpaces(t *testing.T) {
	lookup := &fakeSKULookup{}

	sku, err := GenerateSKU(context.Background(), lookup, " a b c d ")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ABC-\d{4}$`), sku)
}

func TestEnsureUniqueSKU_KeepsFreeSKU(t *testing.T) {
	lookup := &fakeSKULookup{}

	sku, err := EnsureUniqueSKU(context.Background(), lookup, "LEGACY-1")
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-1", sku)
}

func TestEnsureUniqueSKU_SuffixesOnCollision(t *testing.T) {
	lookup := &fakeSKULookup{taken: map[string]bool{
		"LEGACY":   true,
		"LEGACY-1": true,
	}}

	sku, err := EnsureUniqueSKU(context.Background(), lookup, "LEGACY")
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-2", sku)
}
