// Package mapping translates raw legacy dump rows into target-schema
// attributes. Mapping rules are static per-entity descriptors; coercion
// is deliberately lenient because legacy dumps are assumed dirty: a
// malformed number or date degrades to a default with a warning, never
// an error.
package mapping

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoport/internal/core/types"
)

// IsNull reports whether a raw legacy value represents NULL: the literal
// NULL keyword or the empty string.
func IsNull(raw string) bool {
	return raw == "" || raw == "NULL"
}

// legacy dumps store dates either bare or with a time suffix.
var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05"}

// ParseDate parses a legacy date. Zero dates ("0000-00-00") and
// unparseable values yield nil.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if IsNull(s) || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.IsZero() {
				return nil
			}
			return &t
		}
	}
	return nil
}

// ParseBool parses a legacy boolean flag: '1' is true, anything else false.
func ParseBool(raw string) bool {
	return strings.TrimSpace(raw) == "1"
}

// ParseDecimal parses a legacy numeric value. Unparseable input yields
// 0.00 and ok=false so the caller can record a warning.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	return types.ParseLenient(raw)
}

// ParseGender maps the legacy gender code: '0' male, '1' female,
// anything else unknown.
func ParseGender(raw string) *string {
	switch strings.TrimSpace(raw) {
	case "0":
		v := "male"
		return &v
	case "1":
		v := "female"
		return &v
	}
	return nil
}

// ParseLegacyID parses a legacy numeric primary or foreign key.
func ParseLegacyID(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if IsNull(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseInt parses a legacy integer, defaulting to 0.
func ParseInt(raw string) int {
	s := strings.TrimSpace(raw)
	if IsNull(s) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
