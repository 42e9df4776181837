package consumption

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConsumptionFilter defines filtering options for consumption queries
type ConsumptionFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	State      *approval.State
}

// ConsumptionRepository defines the interface for consumption record persistence
type ConsumptionRepository interface {
	approval.TransitionStore

	// FindByID finds a record by ID, shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*ConsumptionRecord, error)

	// FindByCustomerAndPeriod finds the record for the natural key
	FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*ConsumptionRecord, error)

	// FindLatestBefore finds the customer's record with the greatest billing
	// period strictly before period, shared.ErrNotFound when there is none
	FindLatestBefore(ctx context.Context, customerID uuid.UUID, period time.Time) (*ConsumptionRecord, error)

	// ExistsForPeriod reports whether another record holds (customer, period)
	ExistsForPeriod(ctx context.Context, customerID uuid.UUID, period time.Time, excludeID uuid.UUID) (bool, error)

	// FindAll lists records with paging
	FindAll(ctx context.Context, filter ConsumptionFilter) ([]ConsumptionRecord, int64, error)

	// Create inserts a record; a duplicate (customer, period) is a Conflict
	Create(ctx context.Context, record *ConsumptionRecord) error

	// UpdateUnapproved writes the record only while the stored one is not approved
	UpdateUnapproved(ctx context.Context, record *ConsumptionRecord) error

	// DeleteUnapproved removes the record only while the stored one is not approved
	DeleteUnapproved(ctx context.Context, id uuid.UUID) error
}

// ErrDuplicatePeriod is returned when a record already exists for (customer, period)
func ErrDuplicatePeriod(customerID uuid.UUID, period time.Time) *shared.DomainError {
	return shared.Conflict("DUPLICATE_BILLING_PERIOD",
		"Consumption record already exists for customer "+customerID.String()+
			" and billing period "+period.Format(shared.DateLayout))
}
