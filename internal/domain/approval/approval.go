package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Approval is the review capability embedded in every reviewable aggregate.
// ReviewedBy, ReviewedAt and Comments are only set on the transition out of Pending.
type Approval struct {
	State      State      `json:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Comments   string     `json:"comments,omitempty"`
}

// NewPendingApproval returns the initial approval of a submitted entity
func NewPendingApproval() Approval {
	return Approval{State: StatePending}
}

// ApprovalRecord returns a pointer to the embedded approval; it lets any
// aggregate embedding Approval satisfy Reviewable.
func (a *Approval) ApprovalRecord() *Approval {
	return a
}

// IsPending returns true while the entity awaits review
func (a *Approval) IsPending() bool {
	return a.State == StatePending
}

// IsApproved returns true once the entity has been approved
func (a *Approval) IsApproved() bool {
	return a.State == StateApproved
}

// IsRejected returns true once the entity has been rejected
func (a *Approval) IsRejected() bool {
	return a.State == StateRejected
}

// Reviewable is implemented by aggregates that go through the review workflow
type Reviewable interface {
	shared.AggregateRoot
	ApprovalRecord() *Approval
	AggregateTypeName() string
	AuditSnapshot() any
}

// ReviewedEventType names the event raised by a review, e.g. "TariffPlanApproved"
func ReviewedEventType(aggregateType string, decision State) string {
	return aggregateType + decision.String()
}

// Review applies a decision to a reviewable entity. It is the single
// implementation of the Pending -> {Approved, Rejected} transition.
func Review(entity Reviewable, decision State, reviewer uuid.UUID, comments string, at time.Time) error {
	if decision != StateApproved && decision != StateRejected {
		return shared.InvalidArgument("INVALID_DECISION",
			fmt.Sprintf("decision must be %s or %s", NameApproved, NameRejected))
	}
	if reviewer == uuid.Nil {
		return shared.InvalidArgument("INVALID_REVIEWER", "Reviewer user ID cannot be empty")
	}

	a := entity.ApprovalRecord()
	if a.State != StatePending {
		return ErrInvalidTransition(a.State, decision)
	}

	before := entity.AuditSnapshot()
	reviewedAt := at
	a.State = decision
	a.ReviewedBy = &reviewer
	a.ReviewedAt = &reviewedAt
	a.Comments = comments
	entity.Touch(at)

	entity.AddDomainEvent(shared.NewChangeEvent(
		ReviewedEventType(entity.AggregateTypeName(), decision),
		entity.AggregateTypeName(), entity.GetID(), reviewer,
		fmt.Sprintf("%s %s", decision, entity.AggregateTypeName()),
		before, entity.AuditSnapshot(),
	))
	return nil
}

// ErrInvalidTransition is returned when a review targets a non-pending entity
func ErrInvalidTransition(from, to State) *shared.DomainError {
	return shared.InvalidState("INVALID_TRANSITION",
		fmt.Sprintf("Cannot move from %s to %s: only pending entities can be reviewed", from, to))
}

// TransitionStore performs the atomic conditional update of the review:
// the new approval is written only if the stored state is still Pending and
// the stored version is the one the reviewer saw, version - 1, where version
// is the aggregate's version after Review. Implementations return NotFound
// when the row is absent, an INVALID_TRANSITION error when it is no longer
// Pending and a STALE_REVIEW conflict when it was edited since it was loaded.
type TransitionStore interface {
	TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next Approval) error
}

// ErrStaleReview is returned when a pending entity changed after the
// reviewer loaded it
func ErrStaleReview(aggregateType string) *shared.DomainError {
	return shared.Conflict("STALE_REVIEW",
		aggregateType+" was modified after it was loaded; reload it and review again")
}

// StatusLookup resolves approval states to the stable identifiers of the
// status catalog and back. It resolves by name only.
type StatusLookup interface {
	IDFor(ctx context.Context, state State) (int64, error)
	StateFor(ctx context.Context, id int64) (State, error)
}

// ErrStatusNotSeeded is returned when the catalog lacks a required status row
func ErrStatusNotSeeded(name string) *shared.DomainError {
	return shared.ConfigurationError("STATUS_NOT_SEEDED",
		fmt.Sprintf("approval status %q is missing from the status catalog", name))
}
