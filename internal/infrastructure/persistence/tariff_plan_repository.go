package persistence

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityTariffPlan = "TariffPlan"

// GormTariffPlanRepository implements TariffPlanRepository using GORM
type GormTariffPlanRepository struct {
	db       *gorm.DB
	statuses approval.StatusLookup
}

// NewGormTariffPlanRepository creates a new GormTariffPlanRepository
func NewGormTariffPlanRepository(db *gorm.DB, statuses approval.StatusLookup) *GormTariffPlanRepository {
	return &GormTariffPlanRepository{db: db, statuses: statuses}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormTariffPlanRepository) WithTx(tx *gorm.DB) *GormTariffPlanRepository {
	return &GormTariffPlanRepository{db: tx, statuses: r.statuses}
}

// TransitionFromPending records a review decision if the plan is still pending
func (r *GormTariffPlanRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	return reviewTransition{
		db:       r.db,
		statuses: r.statuses,
		model:    &models.TariffPlanModel{},
		entity:   entityTariffPlan,
	}.apply(ctx, id, version, next)
}

// FindByID finds a plan with its slabs sorted by order
func (r *GormTariffPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.TariffPlan, error) {
	var model models.TariffPlanModel
	err := r.db.WithContext(ctx).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB { return db.Order("slab_order ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError("find", entityTariffPlan, id, err, nil)
	}
	state, err := r.statuses.StateFor(ctx, model.ApprovalStatusID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(state), nil
}

// FindAll lists plans, newest effective date first
func (r *GormTariffPlanRepository) FindAll(ctx context.Context, filter tariff.TariffPlanFilter) ([]tariff.TariffPlan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TariffPlanModel{})
	if filter.State != nil {
		statusID, err := r.statuses.IDFor(ctx, *filter.State)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("approval_status_id = ?", statusID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count", entityTariffPlan, nil, err, nil)
	}

	var planModels []models.TariffPlanModel
	err := applyPage(query, filter.Filter).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB { return db.Order("slab_order ASC") }).
		Order(orderClause(filter.Filter, TariffPlanSortFields, "effective_from DESC, created_at DESC")).
		Find(&planModels).Error
	if err != nil {
		return nil, 0, translateError("list", entityTariffPlan, nil, err, nil)
	}

	plans, err := r.toDomainList(ctx, planModels)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// FindApprovedEffectiveOn returns approved plans whose window contains asOf
func (r *GormTariffPlanRepository) FindApprovedEffectiveOn(ctx context.Context, asOf time.Time) ([]tariff.TariffPlan, error) {
	approvedID, err := r.statuses.IDFor(ctx, approval.StateApproved)
	if err != nil {
		return nil, err
	}

	asOf = shared.NormalizeDate(asOf)
	var planModels []models.TariffPlanModel
	err = r.db.WithContext(ctx).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB { return db.Order("slab_order ASC") }).
		Where("approval_status_id = ?", approvedID).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		Find(&planModels).Error
	if err != nil {
		return nil, translateError("list", entityTariffPlan, nil, err, nil)
	}
	return r.toDomainList(ctx, planModels)
}

// ExistsByName reports whether a plan with this name exists, excluding excludeID
func (r *GormTariffPlanRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.TariffPlanModel{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("count", entityTariffPlan, nil, err, nil)
	}
	return count > 0, nil
}

// Create inserts a new plan and its slabs in one transaction
func (r *GormTariffPlanRepository) Create(ctx context.Context, plan *tariff.TariffPlan) error {
	statusID, err := r.statuses.IDFor(ctx, plan.State)
	if err != nil {
		return err
	}
	model := models.TariffPlanModelFromDomain(plan, statusID)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Slabs) > 0 {
			return tx.Create(&model.Slabs).Error
		}
		return nil
	})
	return translateError("create", entityTariffPlan, plan.ID, err, func() error {
		return errDuplicatePlanName(plan.Name)
	})
}

// UpdatePending writes plan fields and replaces its slabs in one
// transaction, only while the stored plan is still pending
func (r *GormTariffPlanRepository) UpdatePending(ctx context.Context, plan *tariff.TariffPlan) error {
	pendingID, err := r.statuses.IDFor(ctx, approval.StatePending)
	if err != nil {
		return err
	}
	model := models.TariffPlanModelFromDomain(plan, pendingID)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TariffPlanModel{}).
			Where("id = ? AND approval_status_id = ?", plan.ID, pendingID).
			Updates(map[string]any{
				"name":           model.Name,
				"description":    model.Description,
				"effective_from": model.EffectiveFrom,
				"effective_to":   model.EffectiveTo,
				"updated_at":     model.UpdatedAt,
				"version":        model.Version,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.notPendingError(tx, plan.ID)
		}

		if err := tx.Where("tariff_plan_id = ?", plan.ID).Delete(&models.TariffSlabModel{}).Error; err != nil {
			return err
		}
		if len(model.Slabs) > 0 {
			return tx.Create(&model.Slabs).Error
		}
		return nil
	})
	return translateError("update", entityTariffPlan, plan.ID, err, func() error {
		return errDuplicatePlanName(plan.Name)
	})
}

// Delete removes a plan and its slabs unless it is approved
func (r *GormTariffPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	approvedID, err := r.statuses.IDFor(ctx, approval.StateApproved)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var statusIDs []int64
		if err := tx.Model(&models.TariffPlanModel{}).Where("id = ?", id).Pluck("approval_status_id", &statusIDs).Error; err != nil {
			return err
		}
		if len(statusIDs) == 0 {
			return shared.NotFound(entityTariffPlan, id)
		}
		if statusIDs[0] == approvedID {
			return errPlanApproved()
		}

		if err := tx.Where("tariff_plan_id = ?", id).Delete(&models.TariffSlabModel{}).Error; err != nil {
			return err
		}
		// Guarded again in case the plan was approved since it was read
		result := tx.Where("id = ? AND approval_status_id <> ?", id, approvedID).Delete(&models.TariffPlanModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errPlanApproved()
		}
		return nil
	})
	return translateError("delete", entityTariffPlan, id, err, nil)
}

func (r *GormTariffPlanRepository) notPendingError(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.TariffPlanModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.NotFound(entityTariffPlan, id)
	}
	return shared.InvalidState("PLAN_NOT_EDITABLE", "Only pending tariff plans can be edited")
}

func (r *GormTariffPlanRepository) toDomainList(ctx context.Context, planModels []models.TariffPlanModel) ([]tariff.TariffPlan, error) {
	resolver := newStateResolver(r.statuses)
	plans := make([]tariff.TariffPlan, len(planModels))
	for i := range planModels {
		state, err := resolver.resolve(ctx, planModels[i].ApprovalStatusID)
		if err != nil {
			return nil, err
		}
		plans[i] = *planModels[i].ToDomain(state)
	}
	return plans, nil
}

func errDuplicatePlanName(name string) error {
	return shared.Conflict("DUPLICATE_PLAN_NAME", "Tariff plan with name "+name+" already exists")
}

func errPlanApproved() error {
	return shared.InvalidState("PLAN_APPROVED", "Cannot delete approved tariff plan")
}
