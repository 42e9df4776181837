package persistence

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityApprovalRequest = "ApprovalRequest"

// GormApprovalRequestRepository implements ApprovalRequestRepository using GORM
type GormApprovalRequestRepository struct {
	db       *gorm.DB
	statuses approval.StatusLookup
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB, statuses approval.StatusLookup) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{db: db, statuses: statuses}
}

// TransitionFromPending records a review decision if the request is still pending
func (r *GormApprovalRequestRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	return reviewTransition{
		db:       r.db,
		statuses: r.statuses,
		model:    &models.ApprovalRequestModel{},
		entity:   entityApprovalRequest,
	}.apply(ctx, id, version, next)
}

// FindByID finds an approval request by ID
func (r *GormApprovalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*approval.ApprovalRequest, error) {
	var model models.ApprovalRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find", entityApprovalRequest, id, err, nil)
	}
	state, err := r.statuses.StateFor(ctx, model.ApprovalStatusID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(state), nil
}

// FindAll lists approval requests, oldest first
func (r *GormApprovalRequestRepository) FindAll(ctx context.Context, filter approval.ApprovalRequestFilter) ([]approval.ApprovalRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ApprovalRequestModel{})
	if filter.TargetModule != "" {
		query = query.Where("target_module = ?", filter.TargetModule)
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
		return nil, 0, translateError("count", entityApprovalRequest, nil, err, nil)
	}

	var requestModels []models.ApprovalRequestModel
	if err := applyPage(query, filter.Filter).Order("requested_at ASC").Find(&requestModels).Error; err != nil {
		return nil, 0, translateError("list", entityApprovalRequest, nil, err, nil)
	}

	resolver := newStateResolver(r.statuses)
	requests := make([]approval.ApprovalRequest, len(requestModels))
	for i := range requestModels {
		state, err := resolver.resolve(ctx, requestModels[i].ApprovalStatusID)
		if err != nil {
			return nil, 0, err
		}
		requests[i] = *requestModels[i].ToDomain(state)
	}
	return requests, total, nil
}

// Save inserts a new approval request
func (r *GormApprovalRequestRepository) Save(ctx context.Context, req *approval.ApprovalRequest) error {
	statusID, err := r.statuses.IDFor(ctx, req.State)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(models.ApprovalRequestModelFromDomain(req, statusID)).Error
	return translateError("create", entityApprovalRequest, req.ID, err, nil)
}
