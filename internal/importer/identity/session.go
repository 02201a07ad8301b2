// Package identity tracks legacy-id → new-id mappings for one import run.
// Maps are an ephemeral pipeline artifact, never persisted: each phase
// records the ids it assigned and later phases resolve foreign keys
// through the session. A reference that does not resolve means the
// dependent row must be skipped; the pipeline never inserts a row with
// a dangling required foreign key.
//
// There is deliberately no fallback to a direct lookup of the live table
// by legacy id: renumbered ids would make such a lookup return
// plausible-looking but wrong links.
package identity

import (
	"invoport/internal/core/id"
)

// Kind names an entity type owning an id map.
type Kind string

const (
	Clients  Kind = "clients"
	Products Kind = "products"
	TaxRates Kind = "tax_rates"
	Families Kind = "families"
	Units    Kind = "units"
	Invoices Kind = "invoices"
)

// Map is one entity type's legacy→new id table.
type Map map[int64]id.ID

// Session owns all identity maps of a single import run. Passing the
// session between phases makes the dependency order explicit: a phase
// that needs client ids reads the map the client phase recorded.
type Session struct {
	maps map[Kind]Map
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{maps: make(map[Kind]Map)}
}

// Record stores the new id assigned to a legacy id.
func (s *Session) Record(kind Kind, legacyID int64, newID id.ID) {
	m, ok := s.maps[kind]
	if !ok {
		m = make(Map)
		s.maps[kind] = m
	}
	m[legacyID] = newID
}

// Resolve looks up the new id for a legacy id.
func (s *Session) Resolve(kind Kind, legacyID int64) (id.ID, bool) {
	m, ok := s.maps[kind]
	if !ok {
		return id.Nil(), false
	}
	newID, ok := m[legacyID]
	return newID, ok
}

// Attach installs an externally supplied map, for standalone phase runs
// where an earlier phase's map was produced by a previous invocation.
func (s *Session) Attach(kind Kind, m Map) {
	if m == nil {
		return
	}
	copied := make(Map, len(m))
	for k, v := range m {
		copied[k] = v
	}
	s.maps[kind] = copied
}

// Snapshot returns a copy of one map, for phase results.
func (s *Session) Snapshot(kind Kind) Map {
	m := s.maps[kind]
	copied := make(Map, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

// Len returns the number of recorded ids for a kind.
func (s *Session) Len(kind Kind) int {
	return len(s.maps[kind])
}
