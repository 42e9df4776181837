package persistence

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviewTransition applies review decisions as a compare-and-set on the
// stored status, so at most one concurrent reviewer succeeds.
type reviewTransition struct {
	db       *gorm.DB
	statuses approval.StatusLookup
	model    any
	entity   string
}

// apply writes next at version only if the row is still Pending at
// version - 1. When no row matches, the row is re-read to tell a missing
// record from a lost race or an edit made since the review was loaded.
func (t reviewTransition) apply(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	pendingID, err := t.statuses.IDFor(ctx, approval.StatePending)
	if err != nil {
		return err
	}
	nextID, err := t.statuses.IDFor(ctx, next.State)
	if err != nil {
		return err
	}

	updatedAt := time.Now()
	if next.ReviewedAt != nil {
		updatedAt = *next.ReviewedAt
	}

	result := t.db.WithContext(ctx).
		Model(t.model).
		Where("id = ? AND approval_status_id = ? AND version = ?", id, pendingID, version-1).
		Updates(map[string]any{
			"approval_status_id": nextID,
			"reviewed_by":        next.ReviewedBy,
			"reviewed_at":        next.ReviewedAt,
			"comments":           next.Comments,
			"updated_at":         updatedAt,
			"version":            version,
		})
	if result.Error != nil {
		return translateError("review", t.entity, id, result.Error, nil)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var statusIDs []int64
	err = t.db.WithContext(ctx).
		Model(t.model).
		Where("id = ?", id).
		Pluck("approval_status_id", &statusIDs).Error
	if err != nil {
		return translateError("review", t.entity, id, err, nil)
	}
	if len(statusIDs) == 0 {
		return shared.NotFound(t.entity, id)
	}
	if statusIDs[0] == pendingID {
		return approval.ErrStaleReview(t.entity)
	}
	current, err := t.statuses.StateFor(ctx, statusIDs[0])
	if err != nil {
		return err
	}
	return approval.ErrInvalidTransition(current, next.State)
}

// stateResolver converts stored status ids to states, memoizing per call
type stateResolver struct {
	statuses approval.StatusLookup
	seen     map[int64]approval.State
}

func newStateResolver(statuses approval.StatusLookup) *stateResolver {
	return &stateResolver{statuses: statuses, seen: make(map[int64]approval.State, 3)}
}

func (r *stateResolver) resolve(ctx context.Context, id int64) (approval.State, error) {
	if state, ok := r.seen[id]; ok {
		return state, nil
	}
	state, err := r.statuses.StateFor(ctx, id)
	if err != nil {
		return approval.StateUnknown, err
	}
	r.seen[id] = state
	return state, nil
}

// applyPage applies paging to a query
func applyPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}
