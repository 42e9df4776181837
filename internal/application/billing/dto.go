package billing

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/billing"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateBillRequest represents a request to bill an approved consumption record.
// PlanID overrides active plan selection when set.
type GenerateBillRequest struct {
	ConsumptionID uuid.UUID  `json:"consumption_id" binding:"required"`
	PlanID        *uuid.UUID `json:"tariff_plan_id"`
	IssuedBy      uuid.UUID  `json:"-"`
}

// BillListFilter represents filter options for bill lists
type BillListFilter struct {
	CustomerID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=Unpaid Paid Overdue"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// BillBreakdownLine is one stored slab contribution
type BillBreakdownLine struct {
	Slab   string          `json:"slab"`
	Units  decimal.Decimal `json:"units"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID            uuid.UUID           `json:"id"`
	ConsumptionID uuid.UUID           `json:"consumption_id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	BillingPeriod string              `json:"billing_month"`
	TariffPlanID  uuid.UUID           `json:"tariff_plan_id"`
	Consumption   decimal.Decimal     `json:"consumption"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Breakdown     []BillBreakdownLine `json:"breakdown"`
	Status        string              `json:"status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	IssuedBy      uuid.UUID           `json:"issued_by"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// ToBillResponse converts a domain Bill to BillResponse
func ToBillResponse(b *billing.Bill) BillResponse {
	lines := make([]BillBreakdownLine, len(b.Breakdown))
	for i, l := range b.Breakdown {
		lines[i] = BillBreakdownLine{
			Slab:   l.RangeLabel,
			Units:  l.Units,
			Rate:   l.Rate,
			Amount: l.Amount,
		}
	}
	return BillResponse{
		ID:            b.ID,
		ConsumptionID: b.ConsumptionID,
		CustomerID:    b.CustomerID,
		BillingPeriod: b.BillingPeriod.Format(shared.DateLayout),
		TariffPlanID:  b.TariffPlanID,
		Consumption:   b.Usage,
		TotalAmount:   b.TotalAmount,
		Breakdown:     lines,
		Status:        b.PaymentStatus.String(),
		PaidAt:        b.PaidAt,
		IssuedBy:      b.IssuedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Version:       b.Version,
	}
}
