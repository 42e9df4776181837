// Package audit holds the persisted trail of changes made to tariff plans,
// consumption records, bills and approval requests.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditLog is one recorded change. OldData is empty on create and NewData
// is empty on delete.
type AuditLog struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	EventType   string
	EntityType  string
	RecordID    uuid.UUID
	Action      string
	PerformedBy uuid.UUID
	OldData     json.RawMessage
	NewData     json.RawMessage
	OccurredAt  time.Time
}

// NewAuditLog builds an entry from an audited event, serializing its snapshots
func NewAuditLog(event shared.AuditedEvent) (*AuditLog, error) {
	oldData, err := marshalSnapshot(event.Before())
	if err != nil {
		return nil, err
	}
	newData, err := marshalSnapshot(event.After())
	if err != nil {
		return nil, err
	}
	return &AuditLog{
		ID:          uuid.New(),
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		EntityType:  event.AggregateType(),
		RecordID:    event.AggregateID(),
		Action:      event.Action(),
		PerformedBy: event.Actor(),
		OldData:     oldData,
		NewData:     newData,
		OccurredAt:  event.OccurredAt(),
	}, nil
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &shared.DomainError{
			Kind:    shared.KindInternal,
			Code:    "AUDIT_SERIALIZATION_FAILED",
			Message: "Failed to serialize audit snapshot",
			Cause:   err,
		}
	}
	return data, nil
}

// AuditLogFilter defines filtering options for audit queries
type AuditLogFilter struct {
	shared.Filter
	EntityType string
	RecordID   *uuid.UUID
}

// AuditLogRepository persists audit entries. Save is idempotent per EventID.
type AuditLogRepository interface {
	Save(ctx context.Context, entry *AuditLog) error
	FindAll(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error)
}
