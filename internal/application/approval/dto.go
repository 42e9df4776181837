package approval

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/google/uuid"
)

// SubmitApprovalRequest represents a request to open an approval request
type SubmitApprovalRequest struct {
	TargetModule   string    `json:"module_name" binding:"required,min=1,max=100"`
	TargetRecordID uuid.UUID `json:"record_id" binding:"required"`
	RequestedBy    uuid.UUID `json:"-"`
	Comments       string    `json:"comments" binding:"max=2000"`
}

// ReviewRequest represents a reviewer decision
type ReviewRequest struct {
	Decision   string    `json:"decision" binding:"required,oneof=Approved Rejected"`
	Comments   string    `json:"comments" binding:"max=2000"`
	ReviewerID uuid.UUID `json:"-"`
}

// ToCommand converts the request into a workflow command
func (r ReviewRequest) ToCommand() ReviewCommand {
	return ReviewCommand{
		Decision:   r.Decision,
		ReviewerID: r.ReviewerID,
		Comments:   r.Comments,
	}
}

// ApprovalResponse is the approval block embedded in reviewable responses
type ApprovalResponse struct {
	Status     string     `json:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Comments   string     `json:"comments,omitempty"`
}

// ToApprovalResponse converts the approval capability to its response form
func ToApprovalResponse(a approval.Approval) ApprovalResponse {
	return ApprovalResponse{
		Status:     a.State.String(),
		ReviewedBy: a.ReviewedBy,
		ReviewedAt: a.ReviewedAt,
		Comments:   a.Comments,
	}
}

// ApprovalRequestResponse represents an approval request in API responses
type ApprovalRequestResponse struct {
	ID             uuid.UUID `json:"id"`
	TargetModule   string    `json:"module_name"`
	TargetRecordID uuid.UUID `json:"record_id"`
	RequestedBy    uuid.UUID `json:"requested_by"`
	RequestedAt    time.Time `json:"requested_at"`
	ApprovalResponse
	Version int `json:"version"`
}

// ApprovalRequestListFilter represents filter options for approval request lists
type ApprovalRequestListFilter struct {
	TargetModule string `form:"module_name"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToApprovalRequestResponse converts a domain ApprovalRequest to its response
func ToApprovalRequestResponse(r *approval.ApprovalRequest) ApprovalRequestResponse {
	return ApprovalRequestResponse{
		ID:               r.ID,
		TargetModule:     r.TargetModule,
		TargetRecordID:   r.TargetRecordID,
		RequestedBy:      r.RequestedBy,
		RequestedAt:      r.RequestedAt,
		ApprovalResponse: ToApprovalResponse(r.Approval),
		Version:          r.Version,
	}
}
