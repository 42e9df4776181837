package tariff

import (
	"strings"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeTariffPlan is the aggregate type for TariffPlan
const AggregateTypeTariffPlan = "TariffPlan"

// Event types emitted by TariffPlan
const (
	EventTypeTariffPlanCreated  = "TariffPlanCreated"
	EventTypeTariffPlanUpdated  = "TariffPlanUpdated"
	EventTypeTariffPlanDeleted  = "TariffPlanDeleted"
	EventTypeTariffPlanApproved = "TariffPlanApproved"
	EventTypeTariffPlanRejected = "TariffPlanRejected"
)

// TariffPlan is a named slab set with an effective date window.
// Its slabs always satisfy ValidateSlabs and are kept sorted by order.
type TariffPlan struct {
	shared.BaseAggregateRoot
	approval.Approval
	Name          string
	Description   string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedBy     uuid.UUID
	Slabs         []TariffSlab
}

// NewTariffPlan creates a pending tariff plan
func NewTariffPlan(
	name, description string,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
	createdBy uuid.UUID,
	slabs []TariffSlab,
) (*TariffPlan, error) {
	if createdBy == uuid.Nil {
		return nil, shared.InvalidArgument("INVALID_CREATOR", "Creator user ID cannot be empty")
	}

	plan := &TariffPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Approval:          approval.NewPendingApproval(),
		CreatedBy:         createdBy,
	}
	if err := plan.apply(name, description, effectiveFrom, effectiveTo); err != nil {
		return nil, err
	}
	if err := plan.setSlabs(slabs); err != nil {
		return nil, err
	}

	plan.AddDomainEvent(shared.NewChangeEvent(
		EventTypeTariffPlanCreated, AggregateTypeTariffPlan, plan.ID,
		createdBy, "Created tariff plan", nil, plan.Snapshot(),
	))
	return plan, nil
}

func (p *TariffPlan) apply(name, description string, effectiveFrom time.Time, effectiveTo *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.InvalidArgument("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if len(name) > 100 {
		return shared.InvalidArgument("INVALID_PLAN_NAME", "Plan name cannot exceed 100 characters")
	}
	if effectiveFrom.IsZero() {
		return shared.InvalidArgument("INVALID_EFFECTIVE_FROM", "Effective from date is required")
	}

	from := shared.NormalizeDate(effectiveFrom)
	var to *time.Time
	if effectiveTo != nil {
		normalized := shared.NormalizeDate(*effectiveTo)
		if normalized.Before(from) {
			return shared.InvalidArgument("INVALID_EFFECTIVE_WINDOW",
				"Effective to date cannot be before effective from date")
		}
		to = &normalized
	}

	p.Name = name
	p.Description = description
	p.EffectiveFrom = from
	p.EffectiveTo = to
	return nil
}

func (p *TariffPlan) setSlabs(slabs []TariffSlab) error {
	sorted, err := ValidateSlabs(slabs)
	if err != nil {
		return err
	}
	for i := range sorted {
		if sorted[i].ID == uuid.Nil {
			sorted[i].ID = uuid.New()
		}
	}
	p.Slabs = sorted
	return nil
}

// PlanUpdate carries optional changes to a tariff plan. Nil fields are left unchanged.
type PlanUpdate struct {
	Name          *string
	Description   *string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	ClearTo       bool
	Slabs         []TariffSlab
}

// Update applies changes to a pending plan. When Slabs is non-nil the whole
// slab set is validated and replaced.
func (p *TariffPlan) Update(changes PlanUpdate, actor uuid.UUID) error {
	if !p.IsPending() {
		return shared.InvalidState("PLAN_NOT_EDITABLE", "Only pending tariff plans can be modified")
	}

	before := p.Snapshot()

	name, description, from, to := p.Name, p.Description, p.EffectiveFrom, p.EffectiveTo
	if changes.Name != nil {
		name = *changes.Name
	}
	if changes.Description != nil {
		description = *changes.Description
	}
	if changes.EffectiveFrom != nil {
		from = *changes.EffectiveFrom
	}
	if changes.EffectiveTo != nil {
		to = changes.EffectiveTo
	}
	if changes.ClearTo {
		to = nil
	}

	next := *p
	if err := next.apply(name, description, from, to); err != nil {
		return err
	}
	if changes.Slabs != nil {
		if err := next.setSlabs(changes.Slabs); err != nil {
			return err
		}
	}

	p.Name, p.Description, p.EffectiveFrom, p.EffectiveTo, p.Slabs =
		next.Name, next.Description, next.EffectiveFrom, next.EffectiveTo, next.Slabs
	p.Touch(time.Now())

	p.AddDomainEvent(shared.NewChangeEvent(
		EventTypeTariffPlanUpdated, AggregateTypeTariffPlan, p.ID,
		actor, "Updated tariff plan", before, p.Snapshot(),
	))
	return nil
}

// MarkDeleted checks that the plan may be deleted and records the event
func (p *TariffPlan) MarkDeleted(actor uuid.UUID) error {
	if p.IsApproved() {
		return shared.InvalidState("PLAN_APPROVED", "Approved tariff plans cannot be deleted")
	}
	p.AddDomainEvent(shared.NewChangeEvent(
		EventTypeTariffPlanDeleted, AggregateTypeTariffPlan, p.ID,
		actor, "Deleted tariff plan", p.Snapshot(), nil,
	))
	return nil
}

// IsEffectiveOn reports whether asOf falls within the plan's effective window
func (p *TariffPlan) IsEffectiveOn(asOf time.Time) bool {
	day := shared.NormalizeDate(asOf)
	if p.EffectiveFrom.After(day) {
		return false
	}
	return p.EffectiveTo == nil || !p.EffectiveTo.Before(day)
}

// IsActiveOn reports whether the plan is approved and effective on asOf
func (p *TariffPlan) IsActiveOn(asOf time.Time) bool {
	return p.IsApproved() && p.IsEffectiveOn(asOf)
}

// Calculate prices usage with this plan's slabs
func (p *TariffPlan) Calculate(usage decimal.Decimal) (Calculation, error) {
	return Calculate(usage, p.Slabs)
}

// AggregateTypeName returns the aggregate type name
func (p *TariffPlan) AggregateTypeName() string {
	return AggregateTypeTariffPlan
}

// AuditSnapshot returns the value recorded in audit events
func (p *TariffPlan) AuditSnapshot() any {
	return p.Snapshot()
}

// Snapshot returns a plain copy of the plan for audit purposes
func (p *TariffPlan) Snapshot() PlanSnapshot {
	slabs := make([]SlabSnapshot, len(p.Slabs))
	for i, s := range p.Slabs {
		slabs[i] = SlabSnapshot{Order: s.Order, Min: s.Min, Max: s.Max, Rate: s.Rate}
	}
	return PlanSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
		CreatedBy:     p.CreatedBy,
		Approval:      p.Approval,
		Slabs:         slabs,
	}
}

// PlanSnapshot is the audit view of a TariffPlan
type PlanSnapshot struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	EffectiveFrom time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time     `json:"effective_to,omitempty"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	Slabs         []SlabSnapshot `json:"slabs"`
	approval.Approval
}

// SlabSnapshot is the audit view of a TariffSlab
type SlabSnapshot struct {
	Order int              `json:"slab_order"`
	Min   decimal.Decimal  `json:"min_consumption"`
	Max   *decimal.Decimal `json:"max_consumption"`
	Rate  decimal.Decimal  `json:"rate_per_unit"`
}
