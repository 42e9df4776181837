// Package audit persists the change trail raised by domain events.
package audit

import (
	"context"
	"errors"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/audit"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes every audited domain event to the audit log
type AuditLogHandler struct {
	repo   audit.AuditLogRepository
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(repo audit.AuditLogRepository, logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{repo: repo, logger: logger}
}

// EventTypes returns nil: the handler receives all events and keeps the audited ones
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle persists the event. Redelivery of an already recorded event is a no-op.
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	audited, ok := event.(shared.AuditedEvent)
	if !ok {
		return nil
	}

	entry, err := audit.NewAuditLog(audited)
	if err != nil {
		return err
	}

	if err := h.repo.Save(ctx, entry); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			h.logger.Debug("Audit entry already recorded", zap.String("event_id", entry.EventID.String()))
			return nil
		}
		return err
	}

	h.logger.Debug("Audit entry recorded",
		zap.String("event_type", entry.EventType),
		zap.String("entity_type", entry.EntityType),
		zap.String("record_id", entry.RecordID.String()))
	return nil
}

// AuditLogService reads the audit trail
type AuditLogService struct {
	repo audit.AuditLogRepository
}

// NewAuditLogService creates a new AuditLogService
func NewAuditLogService(repo audit.AuditLogRepository) *AuditLogService {
	return &AuditLogService{repo: repo}
}

// List lists audit entries, newest first
func (s *AuditLogService) List(ctx context.Context, filter AuditLogListFilter) ([]AuditLogResponse, int64, error) {
	entries, total, err := s.repo.FindAll(ctx, audit.AuditLogFilter{
		Filter:     shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(),
		EntityType: filter.EntityType,
		RecordID:   filter.RecordID,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AuditLogResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditLogResponse(&entries[i])
	}
	return responses, total, nil
}
