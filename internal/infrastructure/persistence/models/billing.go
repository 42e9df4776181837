package models

import (
	"encoding/json"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var billingLogger = zap.L().Named("billing.models")

// BillModel is the persistence model for the Bill aggregate.
// consumption_id is unique: one bill per consumption record.
type BillModel struct {
	AggregateModel
	ConsumptionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillingPeriod time.Time       `gorm:"type:date;not null"`
	TariffPlanID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Consumption   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BreakdownJSON string          `gorm:"column:breakdown;type:jsonb;not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	PaidAt        *time.Time
	IssuedBy      uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill
func (m *BillModel) ToDomain() *billing.Bill {
	bill := &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ConsumptionID:     m.ConsumptionID,
		CustomerID:        m.CustomerID,
		BillingPeriod:     m.BillingPeriod.UTC(),
		TariffPlanID:      m.TariffPlanID,
		Usage:             m.Consumption,
		TotalAmount:       m.TotalAmount,
		Breakdown:         make([]billing.BreakdownLine, 0),
		PaymentStatus:     billing.PaymentStatus(m.Status),
		PaidAt:            m.PaidAt,
		IssuedBy:          m.IssuedBy,
	}
	if m.BreakdownJSON != "" {
		if err := json.Unmarshal([]byte(m.BreakdownJSON), &bill.Breakdown); err != nil {
			billingLogger.Warn("failed to parse breakdown JSON",
				zap.String("bill_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return bill
}

// BillModelFromDomain creates a persistence model from a domain Bill
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{
		ConsumptionID: b.ConsumptionID,
		CustomerID:    b.CustomerID,
		BillingPeriod: b.BillingPeriod,
		TariffPlanID:  b.TariffPlanID,
		Consumption:   b.Usage,
		TotalAmount:   b.TotalAmount,
		BreakdownJSON: "[]",
		Status:        b.PaymentStatus.String(),
		PaidAt:        b.PaidAt,
		IssuedBy:      b.IssuedBy,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	if len(b.Breakdown) > 0 {
		if data, err := json.Marshal(b.Breakdown); err == nil {
			m.BreakdownJSON = string(data)
		}
	}
	return m
}
