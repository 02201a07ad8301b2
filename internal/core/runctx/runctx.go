// Package runctx carries import-run metadata through context.
// An import run is one invocation of the pipeline; every phase of the run
// shares the same run id so log lines can be correlated afterwards.
package runctx

import (
	"context"

	"invoport/internal/core/id"
)

type runKey struct{}
type phaseKey struct{}

// Run identifies a single import run.
type Run struct {
	RunID  string
	DryRun bool
}

// NewRun creates run metadata with a fresh id.
func NewRun(dryRun bool) Run {
	return Run{RunID: id.New().String(), DryRun: dryRun}
}

// WithRun stores run metadata in context.
func WithRun(ctx context.Context, run Run) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

// GetRun returns run metadata from context, or nil if absent.
func GetRun(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey{}).(Run); ok {
		return &r
	}
	return nil
}

// WithPhase stores the current phase name in context.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

// GetPhase returns the current phase name, or "" if absent.
func GetPhase(ctx context.Context) string {
	if p, ok := ctx.Value(phaseKey{}).(string); ok {
		return p
	}
	return ""
}
