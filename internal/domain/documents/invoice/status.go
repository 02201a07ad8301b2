package invoice

import (
	"strings"

	"invoport/internal/core/apperror"
)

// Status enumerates invoice states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusViewed    Status = "viewed"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// statusAliases maps legacy status representations onto Status values.
// Legacy dumps carry numeric status ids; user input may carry names.
// This is the single alias table consulted by ParseStatus; an unknown
// value is an error, never a silent fallback to draft.
var statusAliases = map[string]Status{
	"1":         StatusDraft,
	"2":         StatusSent,
	"3":         StatusViewed,
	"4":         StatusPaid,
	"5":         StatusOverdue,
	"6":         StatusCancelled,
	"draft":     StatusDraft,
	"sent":      StatusSent,
	"viewed":    StatusViewed,
	"paid":      StatusPaid,
	"overdue":   StatusOverdue,
	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
}

// ParseStatus resolves a legacy status value through the alias table.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	return "", apperror.NewUnknownStatus(raw)
}
