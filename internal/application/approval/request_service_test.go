package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApprovalRequestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a pending request", func(t *testing.T) {
		repo := new(mockApprovalRequestRepo)
		repo.On("Save", ctx, mock.AnythingOfType("*approval.ApprovalRequest")).Return(nil)
		svc := NewApprovalRequestService(repo, zap.NewNop())

		resp, err := svc.Submit(ctx, SubmitApprovalRequest{
			TargetModule:   "consumption",
			TargetRecordID: uuid.New(),
			RequestedBy:    uuid.New(),
			Comments:       "meter replaced",
		})
		require.NoError(t, err)

		assert.Equal(t, approval.NamePending, resp.Status)
		assert.Equal(t, "meter replaced", resp.Comments)
		repo.AssertExpectations(t)
	})

	t.Run("missing status catalog row is a configuration error", func(t *testing.T) {
		repo := new(mockApprovalRequestRepo)
		repo.On("Save", ctx, mock.Anything).Return(approval.ErrStatusNotSeeded(approval.NamePending))
		svc := NewApprovalRequestService(repo, zap.NewNop())

		_, err := svc.Submit(ctx, SubmitApprovalRequest{
			TargetModule:   "tariff",
			TargetRecordID: uuid.New(),
			RequestedBy:    uuid.New(),
		})
		assert.True(t, errors.Is(err, shared.ErrConfiguration))
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		repo := new(mockApprovalRequestRepo)
		svc := NewApprovalRequestService(repo, zap.NewNop())

		_, err := svc.Submit(ctx, SubmitApprovalRequest{TargetModule: "tariff", RequestedBy: uuid.New()})
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestApprovalRequestService_Review(t *testing.T) {
	ctx := context.Background()
	repo := new(mockApprovalRequestRepo)
	req := pendingRequest(t)
	repo.On("FindByID", ctx, req.ID).Return(req, nil)
	repo.On("TransitionFromPending", ctx, req.ID, mock.Anything, mock.Anything).Return(nil)

	svc := NewApprovalRequestService(repo, zap.NewNop())

	resp, err := svc.Review(ctx, req.ID, ReviewRequest{Decision: "Rejected", Comments: "wrong record", ReviewerID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, approval.NameRejected, resp.Status)
	assert.Equal(t, "wrong record", resp.Comments)
	assert.NotNil(t, resp.ReviewedAt)

	_, err = svc.Review(ctx, req.ID, ReviewRequest{Decision: "Approved", ReviewerID: uuid.New()})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestApprovalRequestService_ListPending(t *testing.T) {
	ctx := context.Background()
	repo := new(mockApprovalRequestRepo)
	req := pendingRequest(t)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f approval.ApprovalRequestFilter) bool {
		return f.State != nil && *f.State == approval.StatePending && f.Page == 1 && f.PageSize == 20
	})).Return([]approval.ApprovalRequest{*req}, int64(1), nil)

	svc := NewApprovalRequestService(repo, zap.NewNop())
	items, total, err := svc.ListPending(ctx, ApprovalRequestListFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, req.ID, items[0].ID)
}
