package models

import (
	"encoding/json"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for audit entries. event_id is
// unique so redelivered events are recorded once.
type AuditLogModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType   string    `gorm:"type:varchar(100);not null"`
	EntityType  string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	RecordID    uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_logs_entity"`
	Action      string    `gorm:"type:varchar(200);not null"`
	PerformedBy uuid.UUID `gorm:"type:uuid"`
	OldData     *string   `gorm:"type:jsonb"`
	NewData     *string   `gorm:"type:jsonb"`
	OccurredAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain AuditLog
func (m *AuditLogModel) ToDomain() *audit.AuditLog {
	return &audit.AuditLog{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   m.EventType,
		EntityType:  m.EntityType,
		RecordID:    m.RecordID,
		Action:      m.Action,
		PerformedBy: m.PerformedBy,
		OldData:     rawJSON(m.OldData),
		NewData:     rawJSON(m.NewData),
		OccurredAt:  m.OccurredAt,
	}
}

// AuditLogModelFromDomain creates a persistence model from a domain AuditLog
func AuditLogModelFromDomain(a *audit.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:          a.ID,
		EventID:     a.EventID,
		EventType:   a.EventType,
		EntityType:  a.EntityType,
		RecordID:    a.RecordID,
		Action:      a.Action,
		PerformedBy: a.PerformedBy,
		OldData:     jsonString(a.OldData),
		NewData:     jsonString(a.NewData),
		OccurredAt:  a.OccurredAt,
	}
}

func rawJSON(s *string) json.RawMessage {
	if s == nil {
		return nil
	}
	return json.RawMessage(*s)
}

func jsonString(data json.RawMessage) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}
