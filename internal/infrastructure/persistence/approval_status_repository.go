package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApprovalStatusRepository resolves approval states against the
// approval_statuses catalog. Statuses are matched by name only.
type GormApprovalStatusRepository struct {
	db *gorm.DB
}

// NewGormApprovalStatusRepository creates a new GormApprovalStatusRepository
func NewGormApprovalStatusRepository(db *gorm.DB) *GormApprovalStatusRepository {
	return &GormApprovalStatusRepository{db: db}
}

// IDFor returns the catalog id of state
func (r *GormApprovalStatusRepository) IDFor(ctx context.Context, state approval.State) (int64, error) {
	var model models.ApprovalStatusModel
	err := r.db.WithContext(ctx).Where("status_name = ?", state.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, approval.ErrStatusNotSeeded(state.String())
		}
		return 0, translateError("find", "ApprovalStatus", state.String(), err, nil)
	}
	return model.ID, nil
}

// StateFor returns the state stored under a catalog id
func (r *GormApprovalStatusRepository) StateFor(ctx context.Context, id int64) (approval.State, error) {
	var model models.ApprovalStatusModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.StateUnknown, approval.ErrStatusNotSeeded(fmt.Sprintf("#%d", id))
		}
		return approval.StateUnknown, translateError("find", "ApprovalStatus", id, err, nil)
	}
	return approval.ParseState(model.StatusName)
}

// FindAll returns every catalog row
func (r *GormApprovalStatusRepository) FindAll(ctx context.Context) ([]models.ApprovalStatusModel, error) {
	var rows []models.ApprovalStatusModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translateError("list", "ApprovalStatus", nil, err, nil)
	}
	return rows, nil
}
