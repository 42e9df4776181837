package tariff

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TariffPlanFilter defines filtering options for tariff plan queries
type TariffPlanFilter struct {
	shared.Filter
	State *approval.State // Filter by approval state
}

// TariffPlanRepository defines the interface for tariff plan persistence
type TariffPlanRepository interface {
	approval.TransitionStore

	// FindByID finds a plan with its slabs sorted by order
	FindByID(ctx context.Context, id uuid.UUID) (*TariffPlan, error)

	// FindAll lists plans with paging
	FindAll(ctx context.Context, filter TariffPlanFilter) ([]TariffPlan, int64, error)

	// FindApprovedEffectiveOn returns approved plans whose window contains asOf.
	// Result order is unspecified.
	FindApprovedEffectiveOn(ctx context.Context, asOf time.Time) ([]TariffPlan, error)

	// ExistsByName reports whether a plan with this name exists, excluding excludeID
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Create inserts a new plan and its slabs
	Create(ctx context.Context, plan *TariffPlan) error

	// UpdatePending writes plan fields and replaces its slabs in one
	// transaction, only while the stored plan is still pending
	UpdatePending(ctx context.Context, plan *TariffPlan) error

	// Delete removes a plan and its slabs unless it is approved
	Delete(ctx context.Context, id uuid.UUID) error
}
