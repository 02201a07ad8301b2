package mapping

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"invoport/internal/importer/dump"
)

// Kind selects the coercion applied to a legacy field.
type Kind int

const (
	// Text copies the value; NULL/empty becomes nil unless KeepEmpty
	Text Kind = iota
	// Date parses YYYY-MM-DD; zero or invalid dates become nil
	Date
	// Decimal parses a number; failures default to 0.00 with a warning
	Decimal
	// Bool maps '1' to true, anything else to false
	Bool
	// Gender maps '0'/'1' codes to "male"/"female", else nil
	Gender
	// Int parses an integer, defaulting to 0
	Int
)

// Rule maps one legacy column onto a target attribute.
type Rule struct {
	Legacy string
	Target string
	Kind   Kind

	// KeepEmpty preserves the empty string for text fields instead of
	// mapping it to nil. Applies to the name/description override list.
	KeepEmpty bool
}

// EntityMapping is the static legacy→target descriptor for one entity
// type. Injected into the mapper so the rules are testable without a
// database.
type EntityMapping struct {
	Entity string
	Rules  []Rule
}

// Warning records a lenient-coercion fallback for reporting.
type Warning struct {
	Field  string
	Value  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s=%q: %s", w.Field, w.Value, w.Reason)
}

// Record holds mapped, type-coerced target attributes. A key with a nil
// value is an explicit NULL; an absent key means the legacy row did not
// carry the field.
type Record map[string]any

// Apply maps a raw legacy row through the descriptor.
func (m EntityMapping) Apply(row dump.Row) (Record, []Warning) {
	rec := make(Record, len(m.Rules))
	var warnings []Warning

	for _, rule := range m.Rules {
		raw, present := row[rule.Legacy]
		if !present {
			continue
		}

		switch rule.Kind {
		case Text:
			if IsNull(raw) {
				if rule.KeepEmpty {
					rec[rule.Target] = ""
				} else {
					rec[rule.Target] = nil
				}
				continue
			}
			rec[rule.Target] = raw

		case Date:
			rec[rule.Target] = ParseDate(raw)

		case Decimal:
			// NULL and empty stay NULL, same as dates; entity builders
			// decide the default, not the mapping layer
			if IsNull(raw) {
				rec[rule.Target] = nil
				continue
			}
			d, ok := ParseDecimal(raw)
			if !ok {
				warnings = append(warnings, Warning{
					Field:  rule.Target,
					Value:  raw,
					Reason: "unparseable number, defaulted to 0.00",
				})
			}
			rec[rule.Target] = d

		case Bool:
			rec[rule.Target] = ParseBool(raw)

		case Gender:
			rec[rule.Target] = ParseGender(raw)

		case Int:
			rec[rule.Target] = ParseInt(raw)
		}
	}

	return rec, warnings
}

// --- typed accessors ---

// Text returns the string value of field, or "" when absent/NULL.
func (r Record) Text(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// OptText returns the string value as a nullable pointer.
func (r Record) OptText(field string) *string {
	if v, ok := r[field].(string); ok {
		return &v
	}
	return nil
}

// Date returns the date value of field, or nil.
func (r Record) Date(field string) *time.Time {
	if v, ok := r[field].(*time.Time); ok {
		return v
	}
	return nil
}

// Money returns the decimal value of field, or zero.
func (r Record) Money(field string) decimal.Decimal {
	if v, ok := r[field].(decimal.Decimal); ok {
		return v
	}
	return decimal.Zero
}

// Bool returns the boolean value of field.
func (r Record) Bool(field string) bool {
	v, _ := r[field].(bool)
	return v
}

// OptTextPtr returns a *string stored directly (gender).
func (r Record) OptTextPtr(field string) *string {
	if v, ok := r[field].(*string); ok {
		return v
	}
	return nil
}

// Int returns the integer value of field, or 0.
func (r Record) Int(field string) int {
	v, _ := r[field].(int)
	return v
}
