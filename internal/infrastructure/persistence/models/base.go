package models

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// ApprovalColumns are the review columns shared by reviewable tables.
// The status is stored as a reference into approval_statuses.
type ApprovalColumns struct {
	ApprovalStatusID int64      `gorm:"not null;index"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt       *time.Time
	Comments         string `gorm:"type:text"`
}

// FromApproval populates the columns from the domain approval and its catalog id
func (c *ApprovalColumns) FromApproval(a approval.Approval, statusID int64) {
	c.ApprovalStatusID = statusID
	c.ReviewedBy = a.ReviewedBy
	c.ReviewedAt = a.ReviewedAt
	c.Comments = a.Comments
}

// ToApproval converts the columns to the domain approval given the resolved state
func (c *ApprovalColumns) ToApproval(state approval.State) approval.Approval {
	return approval.Approval{
		State:      state,
		ReviewedBy: c.ReviewedBy,
		ReviewedAt: c.ReviewedAt,
		Comments:   c.Comments,
	}
}
