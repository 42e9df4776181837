package persistence

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityConsumption = "ConsumptionRecord"

// GormConsumptionRepository implements ConsumptionRepository using GORM
type GormConsumptionRepository struct {
	db       *gorm.DB
	statuses approval.StatusLookup
}

// NewGormConsumptionRepository creates a new GormConsumptionRepository
func NewGormConsumptionRepository(db *gorm.DB, statuses approval.StatusLookup) *GormConsumptionRepository {
	return &GormConsumptionRepository{db: db, statuses: statuses}
}

// TransitionFromPending records a review decision if the record is still pending
func (r *GormConsumptionRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	return reviewTransition{
		db:       r.db,
		statuses: r.statuses,
		model:    &models.ConsumptionModel{},
		entity:   entityConsumption,
	}.apply(ctx, id, version, next)
}

// FindByID finds a record by ID
func (r *GormConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*consumption.ConsumptionRecord, error) {
	var model models.ConsumptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find", entityConsumption, id, err, nil)
	}
	return r.toDomain(ctx, &model)
}

// FindByCustomerAndPeriod finds the record for (customer, period)
func (r *GormConsumptionRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	period = shared.NormalizeDate(period)
	var model models.ConsumptionModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND billing_period = ?", customerID, period).
		First(&model).Error
	if err != nil {
		return nil, translateError("find", entityConsumption, customerID.String()+"/"+period.Format(shared.DateLayout), err, nil)
	}
	return r.toDomain(ctx, &model)
}

// FindLatestBefore finds the customer's record with the greatest billing
// period strictly before period
func (r *GormConsumptionRepository) FindLatestBefore(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	var model models.ConsumptionModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND billing_period < ?", customerID, shared.NormalizeDate(period)).
		Order("billing_period DESC").
		Take(&model).Error
	if err != nil {
		return nil, translateError("find", entityConsumption, customerID, err, nil)
	}
	return r.toDomain(ctx, &model)
}

// ExistsForPeriod reports whether another record holds (customer, period)
func (r *GormConsumptionRepository) ExistsForPeriod(ctx context.Context, customerID uuid.UUID, period time.Time, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ConsumptionModel{}).
		Where("customer_id = ? AND billing_period = ?", customerID, shared.NormalizeDate(period))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("count", entityConsumption, nil, err, nil)
	}
	return count > 0, nil
}

// FindAll lists records, latest billing period first
func (r *GormConsumptionRepository) FindAll(ctx context.Context, filter consumption.ConsumptionFilter) ([]consumption.ConsumptionRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ConsumptionModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.State != nil {
		statusID, err := r.statuses.IDFor(ctx, *filter.State)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("approval_status_id = ?", statusID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count", entityConsumption, nil, err, nil)
	}

	var recordModels []models.ConsumptionModel
	if err := applyPage(query, filter.Filter).Order(orderClause(filter.Filter, ConsumptionSortFields, "billing_period DESC, created_at DESC")).Find(&recordModels).Error; err != nil {
		return nil, 0, translateError("list", entityConsumption, nil, err, nil)
	}

	resolver := newStateResolver(r.statuses)
	records := make([]consumption.ConsumptionRecord, len(recordModels))
	for i := range recordModels {
		state, err := resolver.resolve(ctx, recordModels[i].ApprovalStatusID)
		if err != nil {
			return nil, 0, err
		}
		records[i] = *recordModels[i].ToDomain(state)
	}
	return records, total, nil
}

// Create inserts a record; the (customer_id, billing_period) index turns a
// concurrent duplicate into a Conflict
func (r *GormConsumptionRepository) Create(ctx context.Context, record *consumption.ConsumptionRecord) error {
	statusID, err := r.statuses.IDFor(ctx, record.State)
	if err != nil {
		return err
	}
	model := models.ConsumptionModelFromDomain(record, statusID)
	err = r.db.WithContext(ctx).Create(model).Error
	return translateError("create", entityConsumption, record.ID, err, func() error {
		return consumption.ErrDuplicatePeriod(record.CustomerID, record.BillingPeriod)
	})
}

// UpdateUnapproved writes the record only while the stored one is not approved
func (r *GormConsumptionRepository) UpdateUnapproved(ctx context.Context, record *consumption.ConsumptionRecord) error {
	approvedID, err := r.statuses.IDFor(ctx, approval.StateApproved)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.ConsumptionModel{}).
		Where("id = ? AND approval_status_id <> ?", record.ID, approvedID).
		Updates(map[string]any{
			"billing_period":   record.BillingPeriod,
			"current_reading":  record.CurrentReading,
			"previous_reading": record.PreviousReading,
			"consumption":      record.Usage,
			"updated_at":       record.UpdatedAt,
			"version":          record.Version,
		})
	if result.Error != nil {
		return translateError("update", entityConsumption, record.ID, result.Error, func() error {
			return consumption.ErrDuplicatePeriod(record.CustomerID, record.BillingPeriod)
		})
	}
	if result.RowsAffected == 0 {
		return r.lockedError(ctx, record.ID, "CONSUMPTION_APPROVED", "Cannot update approved consumption record")
	}
	return nil
}

// DeleteUnapproved removes the record only while the stored one is not approved
func (r *GormConsumptionRepository) DeleteUnapproved(ctx context.Context, id uuid.UUID) error {
	approvedID, err := r.statuses.IDFor(ctx, approval.StateApproved)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND approval_status_id <> ?", id, approvedID).
		Delete(&models.ConsumptionModel{})
	if result.Error != nil {
		return translateError("delete", entityConsumption, id, result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return r.lockedError(ctx, id, "CONSUMPTION_APPROVED", "Cannot delete approved consumption record")
	}
	return nil
}

func (r *GormConsumptionRepository) lockedError(ctx context.Context, id uuid.UUID, code, message string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ConsumptionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateError("find", entityConsumption, id, err, nil)
	}
	if count == 0 {
		return shared.NotFound(entityConsumption, id)
	}
	return shared.InvalidState(code, message)
}

func (r *GormConsumptionRepository) toDomain(ctx context.Context, model *models.ConsumptionModel) (*consumption.ConsumptionRecord, error) {
	state, err := r.statuses.StateFor(ctx, model.ApprovalStatusID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(state), nil
}
