package tariff

import (
	"context"
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TariffService handles tariff plan management, active plan selection and
// bill calculation previews
type TariffService struct {
	planRepo   tariff.TariffPlanRepository
	workflow   *appapproval.Workflow[*tariff.TariffPlan]
	dispatcher *event.Dispatcher
	logger     *zap.Logger
	today      func() time.Time
}

// NewTariffService creates a new TariffService
func NewTariffService(planRepo tariff.TariffPlanRepository, logger *zap.Logger) *TariffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffService{
		planRepo: planRepo,
		workflow: appapproval.NewWorkflow[*tariff.TariffPlan](planRepo.FindByID, planRepo, logger),
		logger:   logger,
		today:    shared.Today,
	}
}

// SetDispatcher sets the event dispatcher
func (s *TariffService) SetDispatcher(dispatcher *event.Dispatcher) {
	s.dispatcher = dispatcher
	s.workflow.SetDispatcher(dispatcher)
}

// SetMetrics sets the review metrics recorder
func (s *TariffService) SetMetrics(metrics appapproval.ReviewMetrics) {
	s.workflow.SetMetrics(metrics)
}

// SetLocation sets the timezone that decides today's date for previews
// and active plan listings
func (s *TariffService) SetLocation(loc *time.Location) {
	s.today = func() time.Time { return shared.NormalizeDate(time.Now().In(loc)) }
}

// Today returns today's calendar date in the configured timezone
func (s *TariffService) Today() time.Time {
	return s.today()
}

// Create creates a pending tariff plan
func (s *TariffService) Create(ctx context.Context, req CreateTariffPlanRequest) (*TariffPlanResponse, error) {
	from, err := shared.ParseDate(req.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return nil, err
	}

	plan, err := tariff.NewTariffPlan(req.Name, req.Description, from, to, req.CreatedBy, ToSlabs(req.Slabs))
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, plan.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Tariff plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("name", plan.Name),
		zap.Int("slabs", len(plan.Slabs)))

	s.dispatcher.Dispatch(ctx, plan)

	response := ToTariffPlanResponse(plan)
	return &response, nil
}

// GetByID returns a plan with its slabs sorted by order
func (s *TariffService) GetByID(ctx context.Context, id uuid.UUID) (*TariffPlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTariffPlanResponse(plan)
	return &response, nil
}

// List lists tariff plans
func (s *TariffService) List(ctx context.Context, filter TariffPlanListFilter) ([]TariffPlanResponse, int64, error) {
	domainFilter := tariff.TariffPlanFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
	}
	if filter.Status != "" {
		state, err := approval.ParseState(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.State = &state
	}

	plans, total, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TariffPlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToTariffPlanResponse(&plans[i])
	}
	return responses, total, nil
}

// Update modifies a pending plan. Slabs, when given, replace the whole set atomically.
func (s *TariffService) Update(ctx context.Context, id uuid.UUID, req UpdateTariffPlanRequest) (*TariffPlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := tariff.PlanUpdate{
		Name:        req.Name,
		Description: req.Description,
		ClearTo:     req.ClearTo,
		Slabs:       ToSlabs(req.Slabs),
	}
	if req.EffectiveFrom != nil {
		from, err := shared.ParseDate(*req.EffectiveFrom)
		if err != nil {
			return nil, err
		}
		changes.EffectiveFrom = &from
	}
	if changes.EffectiveTo, err = parseOptionalDate(req.EffectiveTo); err != nil {
		return nil, err
	}

	if err := plan.Update(changes, req.UpdatedBy); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := s.ensureUniqueName(ctx, plan.Name, plan.ID); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.UpdatePending(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Tariff plan updated",
		zap.String("plan_id", plan.ID.String()),
		zap.Bool("slabs_replaced", req.Slabs != nil))

	s.dispatcher.Dispatch(ctx, plan)

	response := ToTariffPlanResponse(plan)
	return &response, nil
}

// Delete removes a plan unless it is approved
func (s *TariffService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := plan.MarkDeleted(actor); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Tariff plan deleted", zap.String("plan_id", id.String()))
	s.dispatcher.Dispatch(ctx, plan)
	return nil
}

// Review approves or rejects a pending plan
func (s *TariffService) Review(ctx context.Context, id uuid.UUID, req appapproval.ReviewRequest) (*TariffPlanResponse, error) {
	plan, err := s.workflow.Review(ctx, id, req.ToCommand())
	if err != nil {
		return nil, err
	}
	response := ToTariffPlanResponse(plan)
	return &response, nil
}

// ActivePlans returns the approved plans effective on asOf, winner first
func (s *TariffService) ActivePlans(ctx context.Context, asOf time.Time) ([]tariff.TariffPlan, error) {
	plans, err := s.planRepo.FindApprovedEffectiveOn(ctx, shared.NormalizeDate(asOf))
	if err != nil {
		return nil, err
	}
	return tariff.ActivePlans(plans, asOf), nil
}

// ActivePlanResponses returns ActivePlans in response form
func (s *TariffService) ActivePlanResponses(ctx context.Context, asOf time.Time) ([]TariffPlanResponse, error) {
	plans, err := s.ActivePlans(ctx, asOf)
	if err != nil {
		return nil, err
	}
	responses := make([]TariffPlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToTariffPlanResponse(&plans[i])
	}
	return responses, nil
}

// SelectForBilling resolves the plan to bill with. An explicit plan ID is
// used as is, whatever its state or window; otherwise the highest
// precedence active plan on asOf is chosen.
func (s *TariffService) SelectForBilling(ctx context.Context, asOf time.Time, planID *uuid.UUID) (*tariff.TariffPlan, error) {
	if planID != nil {
		return s.planRepo.FindByID(ctx, *planID)
	}

	plans, err := s.ActivePlans(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNoActivePlan(asOf)
	}
	if len(plans) > 1 {
		s.logger.Warn("Multiple active tariff plans, using highest precedence",
			zap.Time("as_of", asOf),
			zap.String("selected_plan_id", plans[0].ID.String()),
			zap.Int("active_count", len(plans)))
	}
	return &plans[0], nil
}

// CalculateBill previews the charge for a consumption quantity using the
// given plan or the plan active today
func (s *TariffService) CalculateBill(ctx context.Context, req CalculateBillRequest) (*CalculationResponse, error) {
	plan, err := s.SelectForBilling(ctx, s.today(), req.PlanID)
	if err != nil {
		return nil, err
	}

	calc, err := plan.Calculate(req.Consumption)
	if err != nil {
		return nil, err
	}

	return &CalculationResponse{
		TariffPlanID: plan.ID,
		Consumption:  req.Consumption,
		TotalAmount:  calc.Total,
		Breakdown:    ToBreakdownResponse(calc.Breakdown),
	}, nil
}

func (s *TariffService) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.planRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.Conflict("DUPLICATE_PLAN_NAME", "Tariff plan with this name already exists")
	}
	return nil
}

// ErrNoActivePlan is returned when no approved plan covers the date
func ErrNoActivePlan(asOf time.Time) *shared.DomainError {
	return shared.NewDomainError(shared.KindNotFound, "NO_ACTIVE_PLAN",
		"No active tariff plan found for "+asOf.Format(shared.DateLayout))
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := shared.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
