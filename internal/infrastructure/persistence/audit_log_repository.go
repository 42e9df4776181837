package persistence

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/audit"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const entityAuditLog = "AuditLog"

// GormAuditLogRepository implements AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Save inserts an audit entry. A second entry for the same event is a Conflict.
func (r *GormAuditLogRepository) Save(ctx context.Context, entry *audit.AuditLog) error {
	err := r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(entry)).Error
	return translateError("create", entityAuditLog, entry.EventID, err, func() error {
		return shared.Conflict("DUPLICATE_AUDIT_EVENT", "Audit entry already recorded for event "+entry.EventID.String())
	})
}

// FindAll lists audit entries, newest first
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter audit.AuditLogFilter) ([]audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.RecordID != nil {
		query = query.Where("record_id = ?", *filter.RecordID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count", entityAuditLog, nil, err, nil)
	}

	var logModels []models.AuditLogModel
	if err := applyPage(query, filter.Filter).Order("occurred_at DESC").Find(&logModels).Error; err != nil {
		return nil, 0, translateError("list", entityAuditLog, nil, err, nil)
	}

	entries := make([]audit.AuditLog, len(logModels))
	for i := range logModels {
		entries[i] = *logModels[i].ToDomain()
	}
	return entries, total, nil
}
