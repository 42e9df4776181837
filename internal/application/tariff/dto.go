package tariff

import (
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlabRequest represents one pricing tier in a create/update request
type SlabRequest struct {
	Order          int              `json:"slab_order" binding:"required,min=1"`
	MinConsumption decimal.Decimal  `json:"min_consumption"`
	MaxConsumption *decimal.Decimal `json:"max_consumption"`
	RatePerUnit    decimal.Decimal  `json:"rate_per_unit"`
}

// CreateTariffPlanRequest represents a request to create a tariff plan
type CreateTariffPlanRequest struct {
	Name          string        `json:"name" binding:"required,min=1,max=100"`
	Description   string        `json:"description" binding:"max=2000"`
	EffectiveFrom string        `json:"effective_from" binding:"required"`
	EffectiveTo   *string       `json:"effective_to"`
	Slabs         []SlabRequest `json:"slabs" binding:"required,min=1,dive"`
	CreatedBy     uuid.UUID     `json:"-"`
}

// UpdateTariffPlanRequest represents a request to update a pending tariff plan
type UpdateTariffPlanRequest struct {
	Name          *string       `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string       `json:"description" binding:"omitempty,max=2000"`
	EffectiveFrom *string       `json:"effective_from"`
	EffectiveTo   *string       `json:"effective_to"`
	ClearTo       bool          `json:"clear_effective_to"`
	Slabs         []SlabRequest `json:"slabs" binding:"omitempty,dive"`
	UpdatedBy     uuid.UUID     `json:"-"`
}

// CalculateBillRequest represents a calculation preview request
type CalculateBillRequest struct {
	Consumption decimal.Decimal `json:"consumption"`
	PlanID      *uuid.UUID      `json:"tariff_plan_id"`
}

// TariffPlanListFilter represents filter options for tariff plan lists
type TariffPlanListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SlabResponse represents a slab in API responses
type SlabResponse struct {
	ID             uuid.UUID        `json:"id"`
	Order          int              `json:"slab_order"`
	MinConsumption decimal.Decimal  `json:"min_consumption"`
	MaxConsumption *decimal.Decimal `json:"max_consumption"`
	RatePerUnit    decimal.Decimal  `json:"rate_per_unit"`
	Range          string           `json:"range"`
}

// TariffPlanResponse represents a tariff plan in API responses
type TariffPlanResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	EffectiveFrom string         `json:"effective_from"`
	EffectiveTo   *string        `json:"effective_to"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	Slabs         []SlabResponse `json:"slabs"`
	appapproval.ApprovalResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// BreakdownLineResponse is one slab contribution of a calculation
type BreakdownLineResponse struct {
	Slab   string          `json:"slab"`
	Units  decimal.Decimal `json:"units"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// CalculationResponse represents a calculation result
type CalculationResponse struct {
	TariffPlanID uuid.UUID               `json:"tariff_plan_id"`
	Consumption  decimal.Decimal         `json:"consumption"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	Breakdown    []BreakdownLineResponse `json:"breakdown"`
}

// ToSlabs converts slab requests to domain slabs
func ToSlabs(reqs []SlabRequest) []tariff.TariffSlab {
	if reqs == nil {
		return nil
	}
	slabs := make([]tariff.TariffSlab, len(reqs))
	for i, r := range reqs {
		slabs[i] = tariff.NewTariffSlab(r.Order, r.MinConsumption, r.MaxConsumption, r.RatePerUnit)
	}
	return slabs
}

// ToTariffPlanResponse converts a domain TariffPlan to TariffPlanResponse
func ToTariffPlanResponse(p *tariff.TariffPlan) TariffPlanResponse {
	slabs := make([]SlabResponse, len(p.Slabs))
	for i, s := range p.Slabs {
		slabs[i] = SlabResponse{
			ID:             s.ID,
			Order:          s.Order,
			MinConsumption: s.Min,
			MaxConsumption: s.Max,
			RatePerUnit:    s.Rate,
			Range:          s.RangeLabel(),
		}
	}

	var effectiveTo *string
	if p.EffectiveTo != nil {
		formatted := p.EffectiveTo.Format(shared.DateLayout)
		effectiveTo = &formatted
	}

	return TariffPlanResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		EffectiveFrom:    p.EffectiveFrom.Format(shared.DateLayout),
		EffectiveTo:      effectiveTo,
		CreatedBy:        p.CreatedBy,
		Slabs:            slabs,
		ApprovalResponse: appapproval.ToApprovalResponse(p.Approval),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
}

// ToBreakdownResponse converts breakdown lines to their response form
func ToBreakdownResponse(lines []tariff.BreakdownLine) []BreakdownLineResponse {
	out := make([]BreakdownLineResponse, len(lines))
	for i, l := range lines {
		out[i] = BreakdownLineResponse{
			Slab:   l.RangeLabel,
			Units:  l.Units,
			Rate:   l.Rate,
			Amount: l.Amount,
		}
	}
	return out
}
