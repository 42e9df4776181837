package approval

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalRequestService handles standalone approval requests
type ApprovalRequestService struct {
	repo       approval.ApprovalRequestRepository
	workflow   *Workflow[*approval.ApprovalRequest]
	dispatcher *event.Dispatcher
	logger     *zap.Logger
}

// NewApprovalRequestService creates a new ApprovalRequestService
func NewApprovalRequestService(repo approval.ApprovalRequestRepository, logger *zap.Logger) *ApprovalRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalRequestService{
		repo:     repo,
		workflow: NewWorkflow[*approval.ApprovalRequest](repo.FindByID, repo, logger),
		logger:   logger,
	}
}

// SetDispatcher sets the event dispatcher
func (s *ApprovalRequestService) SetDispatcher(dispatcher *event.Dispatcher) {
	s.dispatcher = dispatcher
	s.workflow.SetDispatcher(dispatcher)
}

// SetMetrics sets the review metrics recorder
func (s *ApprovalRequestService) SetMetrics(metrics ReviewMetrics) {
	s.workflow.SetMetrics(metrics)
}

// Submit opens a pending approval request
func (s *ApprovalRequestService) Submit(ctx context.Context, req SubmitApprovalRequest) (*ApprovalRequestResponse, error) {
	request, err := approval.NewApprovalRequest(req.TargetModule, req.TargetRecordID, req.RequestedBy, req.Comments)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Approval request submitted",
		zap.String("id", request.ID.String()),
		zap.String("module", request.TargetModule),
		zap.String("record_id", request.TargetRecordID.String()))

	s.dispatcher.Dispatch(ctx, request)

	response := ToApprovalRequestResponse(request)
	return &response, nil
}

// Review approves or rejects a pending approval request
func (s *ApprovalRequestService) Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*ApprovalRequestResponse, error) {
	request, err := s.workflow.Review(ctx, id, req.ToCommand())
	if err != nil {
		return nil, err
	}
	response := ToApprovalRequestResponse(request)
	return &response, nil
}

// GetByID returns an approval request
func (s *ApprovalRequestService) GetByID(ctx context.Context, id uuid.UUID) (*ApprovalRequestResponse, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToApprovalRequestResponse(request)
	return &response, nil
}

// ListPending lists approval requests awaiting review
func (s *ApprovalRequestService) ListPending(ctx context.Context, filter ApprovalRequestListFilter) ([]ApprovalRequestResponse, int64, error) {
	pending := approval.StatePending
	requests, total, err := s.repo.FindAll(ctx, approval.ApprovalRequestFilter{
		Filter:       shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(),
		TargetModule: filter.TargetModule,
		State:        &pending,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ApprovalRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToApprovalRequestResponse(&requests[i])
	}
	return responses, total, nil
}
