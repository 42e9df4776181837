package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// AuditedEvent is a domain event that records a change made by an actor.
// Audit and notification subscribers consume it.
type AuditedEvent interface {
	DomainEvent
	Actor() uuid.UUID
	Action() string
	Before() any
	After() any
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
	}
}

// ChangeEvent is the generic audited event emitted on create, update,
// review, delete and payment transitions. Before and After hold value
// snapshots of the aggregate.
type ChangeEvent struct {
	BaseDomainEvent
	ActorID    uuid.UUID `json:"actor_id"`
	ActionName string    `json:"action"`
	OldData    any       `json:"old_data,omitempty"`
	NewData    any       `json:"new_data,omitempty"`
}

// Actor returns the user who made the change
func (e *ChangeEvent) Actor() uuid.UUID {
	return e.ActorID
}

// Action returns a human-readable description of the change
func (e *ChangeEvent) Action() string {
	return e.ActionName
}

// Before returns the snapshot prior to the change, nil on create
func (e *ChangeEvent) Before() any {
	return e.OldData
}

// After returns the snapshot after the change, nil on delete
func (e *ChangeEvent) After() any {
	return e.NewData
}

// NewChangeEvent creates a ChangeEvent. eventType is e.g. "ConsumptionRecordCreated".
func NewChangeEvent(eventType, aggType string, aggID, actor uuid.UUID, action string, before, after any) *ChangeEvent {
	return &ChangeEvent{
		BaseDomainEvent: NewBaseDomainEvent(eventType, aggType, aggID),
		ActorID:         actor,
		ActionName:      action,
		OldData:         before,
		NewData:         after,
	}
}
