// Package consumption models metered water readings per customer and
// billing period.
package consumption

import (
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeConsumptionRecord is the aggregate type for ConsumptionRecord
const AggregateTypeConsumptionRecord = "ConsumptionRecord"

// Event types emitted by ConsumptionRecord
const (
	EventTypeConsumptionRecordCreated  = "ConsumptionRecordCreated"
	EventTypeConsumptionRecordUpdated  = "ConsumptionRecordUpdated"
	EventTypeConsumptionRecordDeleted  = "ConsumptionRecordDeleted"
	EventTypeConsumptionRecordApproved = "ConsumptionRecordApproved"
	EventTypeConsumptionRecordRejected = "ConsumptionRecordRejected"
)

// ComputeUsage returns current - previous. A reading lower than its
// baseline is rejected; meter replacements are recorded with an explicit
// previous reading.
func ComputeUsage(current, previous decimal.Decimal) (decimal.Decimal, error) {
	if current.IsNegative() || previous.IsNegative() {
		return decimal.Zero, shared.InvalidArgument("NEGATIVE_READING", "Meter readings cannot be negative")
	}
	if current.LessThan(previous) {
		return decimal.Zero, shared.InvalidArgument("NEGATIVE_USAGE",
			"Current reading "+current.String()+" is lower than previous reading "+previous.String())
	}
	return current.Sub(previous), nil
}

// ConsumptionRecord is the reading of one customer for one billing period.
// Usage always equals CurrentReading - PreviousReading.
type ConsumptionRecord struct {
	shared.BaseAggregateRoot
	approval.Approval
	CustomerID      uuid.UUID
	BillingPeriod   time.Time
	CurrentReading  decimal.Decimal
	PreviousReading decimal.Decimal
	Usage           decimal.Decimal
	CreatedBy       uuid.UUID
}

// NewConsumptionRecord creates a pending record. The previous reading must
// already be resolved by the caller.
func NewConsumptionRecord(
	customerID uuid.UUID,
	billingPeriod time.Time,
	currentReading, previousReading decimal.Decimal,
	createdBy uuid.UUID,
) (*ConsumptionRecord, error) {
	if customerID == uuid.Nil {
		return nil, shared.InvalidArgument("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if billingPeriod.IsZero() {
		return nil, shared.InvalidArgument("INVALID_BILLING_PERIOD", "Billing period is required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.InvalidArgument("INVALID_CREATOR", "Creator user ID cannot be empty")
	}

	record := &ConsumptionRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Approval:          approval.NewPendingApproval(),
		CustomerID:        customerID,
		BillingPeriod:     shared.NormalizeDate(billingPeriod),
		CreatedBy:         createdBy,
	}
	if err := record.setReadings(currentReading, previousReading); err != nil {
		return nil, err
	}

	record.AddDomainEvent(shared.NewChangeEvent(
		EventTypeConsumptionRecordCreated, AggregateTypeConsumptionRecord, record.ID,
		createdBy, "Created consumption record", nil, record.Snapshot(),
	))
	return record, nil
}

func (c *ConsumptionRecord) setReadings(current, previous decimal.Decimal) error {
	current = current.Round(2)
	previous = previous.Round(2)
	usage, err := ComputeUsage(current, previous)
	if err != nil {
		return err
	}
	c.CurrentReading = current
	c.PreviousReading = previous
	c.Usage = usage
	return nil
}

// ConsumptionUpdate carries optional changes. Nil fields are left unchanged.
type ConsumptionUpdate struct {
	BillingPeriod   *time.Time
	CurrentReading  *decimal.Decimal
	PreviousReading *decimal.Decimal
}

// Update applies changes and recomputes usage when a reading changed.
// Approved records are immutable.
func (c *ConsumptionRecord) Update(changes ConsumptionUpdate, actor uuid.UUID) error {
	if c.IsApproved() {
		return shared.InvalidState("CONSUMPTION_APPROVED", "Cannot update approved consumption record")
	}

	if changes.BillingPeriod != nil && changes.BillingPeriod.IsZero() {
		return shared.InvalidArgument("INVALID_BILLING_PERIOD", "Billing period is required")
	}

	before := c.Snapshot()

	current, previous := c.CurrentReading, c.PreviousReading
	if changes.CurrentReading != nil {
		current = *changes.CurrentReading
	}
	if changes.PreviousReading != nil {
		previous = *changes.PreviousReading
	}
	if changes.CurrentReading != nil || changes.PreviousReading != nil {
		if err := c.setReadings(current, previous); err != nil {
			return err
		}
	}
	if changes.BillingPeriod != nil {
		c.BillingPeriod = shared.NormalizeDate(*changes.BillingPeriod)
	}

	c.Touch(time.Now())

	c.AddDomainEvent(shared.NewChangeEvent(
		EventTypeConsumptionRecordUpdated, AggregateTypeConsumptionRecord, c.ID,
		actor, "Updated consumption record", before, c.Snapshot(),
	))
	return nil
}

// MarkDeleted checks that the record may be deleted and records the event
func (c *ConsumptionRecord) MarkDeleted(actor uuid.UUID) error {
	if c.IsApproved() {
		return shared.InvalidState("CONSUMPTION_APPROVED", "Cannot delete approved consumption record")
	}
	c.AddDomainEvent(shared.NewChangeEvent(
		EventTypeConsumptionRecordDeleted, AggregateTypeConsumptionRecord, c.ID,
		actor, "Deleted consumption record", c.Snapshot(), nil,
	))
	return nil
}

// AggregateTypeName returns the aggregate type name
func (c *ConsumptionRecord) AggregateTypeName() string {
	return AggregateTypeConsumptionRecord
}

// AuditSnapshot returns the value recorded in audit events
func (c *ConsumptionRecord) AuditSnapshot() any {
	return c.Snapshot()
}

// Snapshot returns a plain copy of the record for audit purposes
func (c *ConsumptionRecord) Snapshot() RecordSnapshot {
	return RecordSnapshot{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		BillingPeriod:   c.BillingPeriod,
		CurrentReading:  c.CurrentReading,
		PreviousReading: c.PreviousReading,
		Usage:           c.Usage,
		CreatedBy:       c.CreatedBy,
		Approval:        c.Approval,
	}
}

// RecordSnapshot is the audit view of a ConsumptionRecord
type RecordSnapshot struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	BillingPeriod   time.Time       `json:"billing_period"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	Usage           decimal.Decimal `json:"consumption"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	approval.Approval
}
