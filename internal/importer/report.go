package importer

import (
	"context"
	"fmt"

	"invoport/internal/importer/identity"
	"invoport/internal/importer/mapping"
	"invoport/pkg/logger"
)

// maxSkipReasons bounds the per-skip reason list in a phase report.
const maxSkipReasons = 20

// PhaseReport summarizes one entity-import phase.
type PhaseReport struct {
	Phase    string `json:"phase"`
	Seen     int    `json:"seen"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Warnings int    `json:"warnings"`

	// SkipReasons holds the first maxSkipReasons per-skip explanations
	SkipReasons []string `json:"skipReasons,omitempty"`

	// IDMap is the legacy→new id map recorded by the phase.
	// Empty on dry runs.
	IDMap identity.Map `json:"-"`
}

func newPhaseReport(phase string) *PhaseReport {
	return &PhaseReport{Phase: phase}
}

// skip counts a skipped row and logs the reason.
func (r *PhaseReport) skip(ctx context.Context, table string, legacyID int64, reason string) {
	r.Skipped++
	msg := fmt.Sprintf("%s id=%d: %s", table, legacyID, reason)
	if len(r.SkipReasons) < maxSkipReasons {
		r.SkipReasons = append(r.SkipReasons, msg)
	}
	logger.Warn(ctx, "row skipped", "table", table, "legacy_id", legacyID, "reason", reason)
}

// warn counts lenient-coercion warnings and logs them.
func (r *PhaseReport) warn(ctx context.Context, table string, legacyID int64, warnings []mapping.Warning) {
	for _, w := range warnings {
		r.Warnings++
		logger.Warn(ctx, "value defaulted",
			"table", table, "legacy_id", legacyID,
			"field", w.Field, "value", w.Value, "reason", w.Reason)
	}
}

// warnRef counts an unresolved optional reference. Optional references
// degrade to NULL; only required references skip the row.
func (r *PhaseReport) warnRef(ctx context.Context, table string, legacyID int64, field string, ref int64) {
	r.Warnings++
	logger.Warn(ctx, "unresolved optional reference",
		"table", table, "legacy_id", legacyID, "field", field, "ref", ref)
}

// PhaseResult is the per-phase outcome of a complete import.
type PhaseResult struct {
	Phase   string `json:"phase"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// CompleteResult aggregates per-phase results of a full import run.
// When a required phase fails hard, the remaining phases are not run and
// Aborted names the failed phase.
type CompleteResult struct {
	Results []PhaseResult  `json:"results"`
	Reports []*PhaseReport `json:"reports"`
	Aborted string         `json:"aborted,omitempty"`
}

func (c *CompleteResult) add(rep *PhaseReport, err error) {
	res := PhaseResult{Phase: rep.Phase, Count: rep.Imported}
	if err != nil {
		res.Success = false
		res.Message = err.Error()
	} else {
		res.Success = true
		res.Message = fmt.Sprintf("imported %d of %d rows (%d skipped)",
			rep.Imported, rep.Seen, rep.Skipped)
	}
	c.Results = append(c.Results, res)
	c.Reports = append(c.Reports, rep)
}
