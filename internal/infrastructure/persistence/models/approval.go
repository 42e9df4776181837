package models

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/google/uuid"
)

// ApprovalStatusModel is a row of the approval status catalog
type ApprovalStatusModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	StatusName  string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ApprovalStatusModel) TableName() string {
	return "approval_statuses"
}

// ApprovalRequestModel is the persistence model for the ApprovalRequest aggregate
type ApprovalRequestModel struct {
	AggregateModel
	ApprovalColumns
	TargetModule   string    `gorm:"type:varchar(100);not null;index:idx_approval_requests_target"`
	TargetRecordID uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_requests_target"`
	RequestedBy    uuid.UUID `gorm:"type:uuid;not null"`
	RequestedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// ToDomain converts the persistence model to a domain ApprovalRequest
func (m *ApprovalRequestModel) ToDomain(state approval.State) *approval.ApprovalRequest {
	return &approval.ApprovalRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Approval:          m.ToApproval(state),
		TargetModule:      m.TargetModule,
		TargetRecordID:    m.TargetRecordID,
		RequestedBy:       m.RequestedBy,
		RequestedAt:       m.RequestedAt,
	}
}

// ApprovalRequestModelFromDomain creates a persistence model from a domain ApprovalRequest
func ApprovalRequestModelFromDomain(r *approval.ApprovalRequest, statusID int64) *ApprovalRequestModel {
	m := &ApprovalRequestModel{
		TargetModule:   r.TargetModule,
		TargetRecordID: r.TargetRecordID,
		RequestedBy:    r.RequestedBy,
		RequestedAt:    r.RequestedAt,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.FromApproval(r.Approval, statusID)
	return m
}
