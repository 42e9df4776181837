package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedStatuses is a catalog with Pending=1, Approved=2, Rejected=3
type fixedStatuses struct{}

func (fixedStatuses) IDFor(_ context.Context, state approval.State) (int64, error) {
	return int64(state), nil
}

func (fixedStatuses) StateFor(_ context.Context, id int64) (approval.State, error) {
	return approval.State(id), nil
}

func TestReviewTransition_QueryShape(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	next := approval.Approval{State: approval.StateApproved, ReviewedBy: &testActor, ReviewedAt: &now}

	t.Run("guards the update on the pending status and loaded version", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		repo := NewGormConsumptionRepository(db.DB, fixedStatuses{})

		mock.ExpectExec(`UPDATE "consumptions" SET .* WHERE \(id = \$\d+ AND approval_status_id = \$\d+ AND version = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.TransitionFromPending(context.Background(), id, 4, next))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race re-reads the stored status", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		repo := NewGormConsumptionRepository(db.DB, fixedStatuses{})

		mock.ExpectExec(`UPDATE "consumptions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "approval_status_id" FROM "consumptions" WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"approval_status_id"}).AddRow(int64(approval.StateRejected)))

		err := repo.TransitionFromPending(context.Background(), id, 2, next)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending row at another version is a stale review", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		repo := NewGormTariffPlanRepository(db.DB, fixedStatuses{})

		mock.ExpectExec(`UPDATE "tariff_plans" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "approval_status_id" FROM "tariff_plans" WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"approval_status_id"}).AddRow(int64(approval.StatePending)))

		err := repo.TransitionFromPending(context.Background(), id, 2, next)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		repo := NewGormTariffPlanRepository(db.DB, fixedStatuses{})

		mock.ExpectExec(`UPDATE "tariff_plans" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "approval_status_id" FROM "tariff_plans" WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"approval_status_id"}))

		err := repo.TransitionFromPending(context.Background(), id, 2, next)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage failure is wrapped as internal", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		repo := NewGormTariffPlanRepository(db.DB, fixedStatuses{})

		mock.ExpectExec(`UPDATE "tariff_plans" SET`).WillReturnError(assert.AnError)

		err := repo.TransitionFromPending(context.Background(), id, 2, next)
		require.Error(t, err)
		assert.Equal(t, shared.KindInternal, shared.KindOf(err))
	})
}
