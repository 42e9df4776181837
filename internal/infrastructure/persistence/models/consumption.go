package models

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionModel is the persistence model for the ConsumptionRecord aggregate.
// (customer_id, billing_period) is unique.
type ConsumptionModel struct {
	AggregateModel
	ApprovalColumns
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumptions_customer_period"`
	BillingPeriod   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_consumptions_customer_period"`
	CurrentReading  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PreviousReading decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Consumption     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ConsumptionModel) TableName() string {
	return "consumptions"
}

// ToDomain converts the persistence model to a domain ConsumptionRecord
func (m *ConsumptionModel) ToDomain(state approval.State) *consumption.ConsumptionRecord {
	return &consumption.ConsumptionRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Approval:          m.ToApproval(state),
		CustomerID:        m.CustomerID,
		BillingPeriod:     m.BillingPeriod.UTC(),
		CurrentReading:    m.CurrentReading,
		PreviousReading:   m.PreviousReading,
		Usage:             m.Consumption,
		CreatedBy:         m.CreatedBy,
	}
}

// ConsumptionModelFromDomain creates a persistence model from a domain ConsumptionRecord
func ConsumptionModelFromDomain(c *consumption.ConsumptionRecord, statusID int64) *ConsumptionModel {
	m := &ConsumptionModel{
		CustomerID:      c.CustomerID,
		BillingPeriod:   c.BillingPeriod,
		CurrentReading:  c.CurrentReading,
		PreviousReading: c.PreviousReading,
		Consumption:     c.Usage,
		CreatedBy:       c.CreatedBy,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FromApproval(c.Approval, statusID)
	return m
}
