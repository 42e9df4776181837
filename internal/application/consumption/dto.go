package consumption

import (
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateConsumptionRequest represents a request to record a meter reading.
// PreviousReading is resolved from the customer's prior period when omitted.
type CreateConsumptionRequest struct {
	CustomerID      uuid.UUID        `json:"customer_id" binding:"required"`
	BillingPeriod   string           `json:"billing_month" binding:"required"`
	CurrentReading  decimal.Decimal  `json:"current_reading"`
	PreviousReading *decimal.Decimal `json:"previous_reading"`
	CreatedBy       uuid.UUID        `json:"-"`
}

// UpdateConsumptionRequest represents a request to correct a reading
type UpdateConsumptionRequest struct {
	BillingPeriod   *string          `json:"billing_month"`
	CurrentReading  *decimal.Decimal `json:"current_reading"`
	PreviousReading *decimal.Decimal `json:"previous_reading"`
	UpdatedBy       uuid.UUID        `json:"-"`
}

// ConsumptionListFilter represents filter options for consumption lists
type ConsumptionListFilter struct {
	CustomerID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ConsumptionResponse represents a consumption record in API responses
type ConsumptionResponse struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	BillingPeriod   string          `json:"billing_month"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	Consumption     decimal.Decimal `json:"consumption"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	appapproval.ApprovalResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToConsumptionResponse converts a domain ConsumptionRecord to ConsumptionResponse
func ToConsumptionResponse(c *consumption.ConsumptionRecord) ConsumptionResponse {
	return ConsumptionResponse{
		ID:               c.ID,
		CustomerID:       c.CustomerID,
		BillingPeriod:    c.BillingPeriod.Format(shared.DateLayout),
		CurrentReading:   c.CurrentReading,
		PreviousReading:  c.PreviousReading,
		Consumption:      c.Usage,
		CreatedBy:        c.CreatedBy,
		ApprovalResponse: appapproval.ToApprovalResponse(c.Approval),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}
