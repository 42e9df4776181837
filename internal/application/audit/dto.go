package audit

import (
	"encoding/json"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogListFilter represents filter options for audit lists
type AuditLogListFilter struct {
	EntityType string     `form:"entity_type"`
	RecordID   *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuditLogResponse represents an audit entry in API responses
type AuditLogResponse struct {
	ID          uuid.UUID       `json:"id"`
	EventType   string          `json:"event_type"`
	EntityType  string          `json:"entity_type"`
	RecordID    uuid.UUID       `json:"record_id"`
	Action      string          `json:"action"`
	PerformedBy uuid.UUID       `json:"performed_by"`
	OldData     json.RawMessage `json:"old_data,omitempty"`
	NewData     json.RawMessage `json:"new_data,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// ToAuditLogResponse converts a domain AuditLog to AuditLogResponse
func ToAuditLogResponse(a *audit.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          a.ID,
		EventType:   a.EventType,
		EntityType:  a.EntityType,
		RecordID:    a.RecordID,
		Action:      a.Action,
		PerformedBy: a.PerformedBy,
		OldData:     a.OldData,
		NewData:     a.NewData,
		OccurredAt:  a.OccurredAt,
	}
}
