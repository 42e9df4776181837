package approval

import (
	"context"
	"strings"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeApprovalRequest is the aggregate type for ApprovalRequest
const AggregateTypeApprovalRequest = "ApprovalRequest"

// Event types emitted by ApprovalRequest
const (
	EventTypeApprovalRequestSubmitted = "ApprovalRequestSubmitted"
	EventTypeApprovalRequestApproved  = "ApprovalRequestApproved"
	EventTypeApprovalRequestRejected  = "ApprovalRequestRejected"
)

// ApprovalRequest is a standalone review envelope pointing at a record in
// another module. It carries the same lifecycle as the reviewed aggregates.
type ApprovalRequest struct {
	shared.BaseAggregateRoot
	Approval
	TargetModule   string
	TargetRecordID uuid.UUID
	RequestedBy    uuid.UUID
	RequestedAt    time.Time
}

// NewApprovalRequest creates a pending approval request
func NewApprovalRequest(targetModule string, targetRecordID, requestedBy uuid.UUID, comments string) (*ApprovalRequest, error) {
	targetModule = strings.TrimSpace(targetModule)
	if targetModule == "" {
		return nil, shared.InvalidArgument("INVALID_MODULE", "Target module cannot be empty")
	}
	if len(targetModule) > 100 {
		return nil, shared.InvalidArgument("INVALID_MODULE", "Target module cannot exceed 100 characters")
	}
	if targetRecordID == uuid.Nil {
		return nil, shared.InvalidArgument("INVALID_RECORD", "Target record ID cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.InvalidArgument("INVALID_REQUESTER", "Requester user ID cannot be empty")
	}

	req := &ApprovalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Approval:          NewPendingApproval(),
		TargetModule:      targetModule,
		TargetRecordID:    targetRecordID,
		RequestedBy:       requestedBy,
	}
	req.RequestedAt = req.CreatedAt
	req.Comments = comments

	req.AddDomainEvent(shared.NewChangeEvent(
		EventTypeApprovalRequestSubmitted, AggregateTypeApprovalRequest, req.ID,
		requestedBy, "Submitted approval request", nil, req.Snapshot(),
	))
	return req, nil
}

// AggregateTypeName returns the aggregate type name
func (r *ApprovalRequest) AggregateTypeName() string {
	return AggregateTypeApprovalRequest
}

// AuditSnapshot returns the value recorded in audit events
func (r *ApprovalRequest) AuditSnapshot() any {
	return r.Snapshot()
}

// Snapshot returns a plain copy for audit purposes
func (r *ApprovalRequest) Snapshot() ApprovalRequestSnapshot {
	return ApprovalRequestSnapshot{
		ID:             r.ID,
		TargetModule:   r.TargetModule,
		TargetRecordID: r.TargetRecordID,
		RequestedBy:    r.RequestedBy,
		RequestedAt:    r.RequestedAt,
		Approval:       r.Approval,
	}
}

// ApprovalRequestSnapshot is the audit view of an ApprovalRequest
type ApprovalRequestSnapshot struct {
	ID             uuid.UUID `json:"id"`
	TargetModule   string    `json:"module_name"`
	TargetRecordID uuid.UUID `json:"record_id"`
	RequestedBy    uuid.UUID `json:"requested_by"`
	RequestedAt    time.Time `json:"requested_at"`
	Approval
}

// ApprovalRequestFilter narrows approval request listings
type ApprovalRequestFilter struct {
	shared.Filter
	TargetModule string
	State        *State
}

// ApprovalRequestRepository persists approval requests
type ApprovalRequestRepository interface {
	TransitionStore
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error)
	FindAll(ctx context.Context, filter ApprovalRequestFilter) ([]ApprovalRequest, int64, error)
	Save(ctx context.Context, req *ApprovalRequest) error
}
