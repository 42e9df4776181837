// Package approval holds the review lifecycle shared by every reviewable
// aggregate: tariff plans, consumption records and standalone approval
// requests.
package approval

import (
	"fmt"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
)

// State is the review lifecycle value of a reviewable entity.
// The store keeps statuses as named rows; State is the in-process variant
// and is translated by the status catalog adapter.
type State int

const (
	StateUnknown State = iota
	StatePending
	StateApproved
	StateRejected
)

// Status names as stored in the approval status catalog
const (
	NamePending  = "Pending"
	NameApproved = "Approved"
	NameRejected = "Rejected"
)

// String returns the catalog name of the state
func (s State) String() string {
	switch s {
	case StatePending:
		return NamePending
	case StateApproved:
		return NameApproved
	case StateRejected:
		return NameRejected
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is one of the three lifecycle states
func (s State) IsValid() bool {
	return s == StatePending || s == StateApproved || s == StateRejected
}

// IsTerminal reports whether no further transition is possible
func (s State) IsTerminal() bool {
	return s == StateApproved || s == StateRejected
}

// MarshalText encodes the state as its catalog name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a catalog name
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseState maps a catalog name to a State
func ParseState(name string) (State, error) {
	switch name {
	case NamePending:
		return StatePending, nil
	case NameApproved:
		return StateApproved, nil
	case NameRejected:
		return StateRejected, nil
	}
	return StateUnknown, shared.InvalidArgument("INVALID_STATUS", fmt.Sprintf("unknown approval status %q", name))
}

// ParseDecision maps a reviewer decision to a terminal State.
// Only "Approved" and "Rejected" are accepted.
func ParseDecision(decision string) (State, error) {
	switch decision {
	case NameApproved:
		return StateApproved, nil
	case NameRejected:
		return StateRejected, nil
	}
	return StateUnknown, shared.InvalidArgument("INVALID_DECISION",
		fmt.Sprintf("decision must be %q or %q, got %q", NameApproved, NameRejected, decision))
}

// AllStates lists the states the catalog must contain
func AllStates() []State {
	return []State{StatePending, StateApproved, StateRejected}
}
