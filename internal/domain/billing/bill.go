// Package billing holds the Bill aggregate, linked one-to-one to an
// approved consumption record.
package billing

import (
	"fmt"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeBill is the aggregate type for Bill
const AggregateTypeBill = "Bill"

// Event types emitted by Bill
const (
	EventTypeBillIssued  = "BillIssued"
	EventTypeBillPaid    = "BillPaid"
	EventTypeBillOverdue = "BillOverdue"
)

// PaymentStatus represents the payment state of a bill
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusOverdue PaymentStatus = "Overdue"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanPay returns true if a payment may be recorded
func (s PaymentStatus) CanPay() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusOverdue
}

// CanMarkOverdue returns true if the bill may be flagged overdue
func (s PaymentStatus) CanMarkOverdue() bool {
	return s == PaymentStatusUnpaid
}

// BreakdownLine is one slab contribution stored on the bill
type BreakdownLine = tariff.BreakdownLine

// Bill is the charge computed for one consumption record
type Bill struct {
	shared.BaseAggregateRoot
	ConsumptionID uuid.UUID
	CustomerID    uuid.UUID
	BillingPeriod time.Time
	TariffPlanID  uuid.UUID
	Usage         decimal.Decimal
	TotalAmount   decimal.Decimal
	Breakdown     []BreakdownLine
	PaymentStatus PaymentStatus
	PaidAt        *time.Time
	IssuedBy      uuid.UUID
}

// IssueBill creates an unpaid bill for an approved consumption record,
// storing the calculation breakdown verbatim.
func IssueBill(
	record *consumption.ConsumptionRecord,
	plan *tariff.TariffPlan,
	calc tariff.Calculation,
	issuedBy uuid.UUID,
) (*Bill, error) {
	if record == nil || plan == nil {
		return nil, shared.InvalidArgument("INVALID_BILL_SOURCE", "Consumption record and tariff plan are required")
	}
	if !record.IsApproved() {
		return nil, shared.InvalidState("CONSUMPTION_NOT_APPROVED",
			fmt.Sprintf("Consumption record %s must be approved before billing", record.ID))
	}

	breakdown := make([]BreakdownLine, len(calc.Breakdown))
	copy(breakdown, calc.Breakdown)

	bill := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ConsumptionID:     record.ID,
		CustomerID:        record.CustomerID,
		BillingPeriod:     record.BillingPeriod,
		TariffPlanID:      plan.ID,
		Usage:             record.Usage,
		TotalAmount:       calc.Total,
		Breakdown:         breakdown,
		PaymentStatus:     PaymentStatusUnpaid,
		IssuedBy:          issuedBy,
	}

	bill.AddDomainEvent(shared.NewChangeEvent(
		EventTypeBillIssued, AggregateTypeBill, bill.ID,
		issuedBy, "Issued water bill", nil, bill.Snapshot(),
	))
	return bill, nil
}

// MarkPaid records payment of the bill
func (b *Bill) MarkPaid(actor uuid.UUID, paidAt time.Time) error {
	if b.PaymentStatus == PaymentStatusPaid {
		return shared.InvalidState("BILL_ALREADY_PAID", "Bill is already paid")
	}
	if !b.PaymentStatus.CanPay() {
		return shared.InvalidState("INVALID_PAYMENT_STATUS",
			fmt.Sprintf("Cannot pay bill in %s status", b.PaymentStatus))
	}

	before := b.Snapshot()
	b.PaymentStatus = PaymentStatusPaid
	b.PaidAt = &paidAt
	b.Touch(time.Now())

	b.AddDomainEvent(shared.NewChangeEvent(
		EventTypeBillPaid, AggregateTypeBill, b.ID,
		actor, "Marked bill as paid", before, b.Snapshot(),
	))
	return nil
}

// MarkOverdue flags an unpaid bill as overdue
func (b *Bill) MarkOverdue(actor uuid.UUID) error {
	if !b.PaymentStatus.CanMarkOverdue() {
		return shared.InvalidState("INVALID_PAYMENT_STATUS",
			fmt.Sprintf("Cannot mark bill overdue in %s status", b.PaymentStatus))
	}

	before := b.Snapshot()
	b.PaymentStatus = PaymentStatusOverdue
	b.Touch(time.Now())

	b.AddDomainEvent(shared.NewChangeEvent(
		EventTypeBillOverdue, AggregateTypeBill, b.ID,
		actor, "Marked bill as overdue", before, b.Snapshot(),
	))
	return nil
}

// IsPaid returns true if the bill is paid
func (b *Bill) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// Snapshot returns a plain copy of the bill for audit purposes
func (b *Bill) Snapshot() BillSnapshot {
	return BillSnapshot{
		ID:            b.ID,
		ConsumptionID: b.ConsumptionID,
		CustomerID:    b.CustomerID,
		BillingPeriod: b.BillingPeriod,
		TariffPlanID:  b.TariffPlanID,
		TotalAmount:   b.TotalAmount,
		PaymentStatus: b.PaymentStatus,
		PaidAt:        b.PaidAt,
	}
}

// BillSnapshot is the audit view of a Bill
type BillSnapshot struct {
	ID            uuid.UUID       `json:"id"`
	ConsumptionID uuid.UUID       `json:"consumption_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	BillingPeriod time.Time       `json:"billing_month"`
	TariffPlanID  uuid.UUID       `json:"tariff_plan_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}
