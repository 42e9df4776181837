package billing

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillFilter defines filtering options for bill queries
type BillFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID
	PaymentStatus *PaymentStatus
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByConsumption finds the bill linked to a consumption record
	FindByConsumption(ctx context.Context, consumptionID uuid.UUID) (*Bill, error)

	// ExistsForConsumption reports whether a bill references the consumption record
	ExistsForConsumption(ctx context.Context, consumptionID uuid.UUID) (bool, error)

	// FindAll lists bills with paging
	FindAll(ctx context.Context, filter BillFilter) ([]Bill, int64, error)

	// Create inserts a bill; a second bill for the same consumption is a Conflict
	Create(ctx context.Context, bill *Bill) error

	// UpdatePaymentStatus writes the bill's payment fields only if the stored
	// status still equals from
	UpdatePaymentStatus(ctx context.Context, bill *Bill, from PaymentStatus) error
}

// ErrBillAlreadyIssued is returned when a consumption record already has a bill
func ErrBillAlreadyIssued(consumptionID uuid.UUID) *shared.DomainError {
	return shared.Conflict("BILL_ALREADY_ISSUED",
		"Bill already exists for consumption record "+consumptionID.String())
}
