package product

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// SKULookup is the subset of Repository needed to de-duplicate SKUs.
type SKULookup interface {
	SKUExists(ctx context.Context, sku string) (bool, error)
}

const skuPrefixLen = 3

// GenerateSKU builds a SKU for a product without one: an uppercase prefix
// derived from the name plus a random numeric suffix. Collisions are
// resolved by re-checking and appending a counter.
func GenerateSKU(ctx context.Context, lookup SKULookup, name string) (string, error) {
	base := fmt.Sprintf("%s-%04d", skuPrefix(name), rand.Intn(10000))

	sku := base
	for counter := 1; ; counter++ {
		exists, err := lookup.SKUExists(ctx, sku)
		if err != nil {
			return "", fmt.Errorf("check sku %q: %w", sku, err)
		}
		if !exists {
			return sku, nil
		}
		sku = fmt.Sprintf("%s-%d", base, counter)
	}
}

// EnsureUniqueSKU keeps a legacy SKU when free, otherwise appends a
// numeric suffix until it no longer collides.
func EnsureUniqueSKU(ctx context.Context, lookup SKULookup, sku string) (string, error) {
	candidate := sku
	for counter := 1; ; counter++ {
		exists, err := lookup.SKUExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check sku %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", sku, counter)
	}
}

// skuPrefix derives an uppercase alphanumeric prefix from a product name.
func skuPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() >= skuPrefixLen {
			break
		}
	}
	if b.Len() == 0 {
		return "PRD"
	}
	return b.String()
}
