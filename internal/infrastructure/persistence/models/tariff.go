package models

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TariffPlanModel is the persistence model for the TariffPlan aggregate
type TariffPlanModel struct {
	AggregateModel
	ApprovalColumns
	Name          string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description   string            `gorm:"type:text"`
	EffectiveFrom time.Time         `gorm:"type:date;not null;index"`
	EffectiveTo   *time.Time        `gorm:"type:date"`
	CreatedBy     uuid.UUID         `gorm:"type:uuid;not null"`
	Slabs         []TariffSlabModel `gorm:"foreignKey:TariffPlanID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TariffPlanModel) TableName() string {
	return "tariff_plans"
}

// TariffSlabModel is the persistence model for a TariffSlab
type TariffSlabModel struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key"`
	TariffPlanID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_tariff_slabs_plan_order"`
	MinConsumption decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	MaxConsumption decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	RatePerUnit    decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	SlabOrder      int                 `gorm:"not null;uniqueIndex:idx_tariff_slabs_plan_order"`
}

// TableName returns the table name for GORM
func (TariffSlabModel) TableName() string {
	return "tariff_slabs"
}

// ToDomain converts the persistence model to a domain TariffSlab
func (m *TariffSlabModel) ToDomain() tariff.TariffSlab {
	slab := tariff.TariffSlab{
		ID:    m.ID,
		Min:   m.MinConsumption,
		Rate:  m.RatePerUnit,
		Order: m.SlabOrder,
	}
	if m.MaxConsumption.Valid {
		upper := m.MaxConsumption.Decimal
		slab.Max = &upper
	}
	return slab
}

// TariffSlabModelFromDomain creates a persistence model from a domain TariffSlab
func TariffSlabModelFromDomain(planID uuid.UUID, s tariff.TariffSlab) TariffSlabModel {
	m := TariffSlabModel{
		ID:             s.ID,
		TariffPlanID:   planID,
		MinConsumption: s.Min,
		RatePerUnit:    s.Rate,
		SlabOrder:      s.Order,
	}
	if s.Max != nil {
		m.MaxConsumption = decimal.NewNullDecimal(*s.Max)
	}
	return m
}

// ToDomain converts the persistence model to a domain TariffPlan with slabs sorted by order
func (m *TariffPlanModel) ToDomain(state approval.State) *tariff.TariffPlan {
	slabs := make([]tariff.TariffSlab, len(m.Slabs))
	for i := range m.Slabs {
		slabs[i] = m.Slabs[i].ToDomain()
	}
	return &tariff.TariffPlan{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Approval:          m.ToApproval(state),
		Name:              m.Name,
		Description:       m.Description,
		EffectiveFrom:     m.EffectiveFrom.UTC(),
		EffectiveTo:       utcPtr(m.EffectiveTo),
		CreatedBy:         m.CreatedBy,
		Slabs:             tariff.SortSlabs(slabs),
	}
}

// TariffPlanModelFromDomain creates a persistence model from a domain TariffPlan
func TariffPlanModelFromDomain(p *tariff.TariffPlan, statusID int64) *TariffPlanModel {
	m := &TariffPlanModel{
		Name:          p.Name,
		Description:   p.Description,
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
		CreatedBy:     p.CreatedBy,
		Slabs:         make([]TariffSlabModel, len(p.Slabs)),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.FromApproval(p.Approval, statusID)
	for i, s := range p.Slabs {
		m.Slabs[i] = TariffSlabModelFromDomain(p.ID, s)
	}
	return m
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
