package consumption

import (
	"context"
	"errors"
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConsumptionService records meter readings, resolves their baseline and
// routes them through review
type ConsumptionService struct {
	repo       consumption.ConsumptionRepository
	workflow   *appapproval.Workflow[*consumption.ConsumptionRecord]
	dispatcher *event.Dispatcher
	logger     *zap.Logger
}

// NewConsumptionService creates a new ConsumptionService
func NewConsumptionService(repo consumption.ConsumptionRepository, logger *zap.Logger) *ConsumptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsumptionService{
		repo:     repo,
		workflow: appapproval.NewWorkflow[*consumption.ConsumptionRecord](repo.FindByID, repo, logger),
		logger:   logger,
	}
}

// SetDispatcher sets the event dispatcher
func (s *ConsumptionService) SetDispatcher(dispatcher *event.Dispatcher) {
	s.dispatcher = dispatcher
	s.workflow.SetDispatcher(dispatcher)
}

// SetMetrics sets the review metrics recorder
func (s *ConsumptionService) SetMetrics(metrics appapproval.ReviewMetrics) {
	s.workflow.SetMetrics(metrics)
}

// Create records a reading for (customer, billing period). When no previous
// reading is given, the current reading of the customer's latest earlier
// period is used, or zero for a first reading.
func (s *ConsumptionService) Create(ctx context.Context, req CreateConsumptionRequest) (*ConsumptionResponse, error) {
	period, err := shared.ParseDate(req.BillingPeriod)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForPeriod(ctx, req.CustomerID, period, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, consumption.ErrDuplicatePeriod(req.CustomerID, period)
	}

	previous, err := s.resolvePreviousReading(ctx, req.CustomerID, period, req.PreviousReading)
	if err != nil {
		return nil, err
	}

	record, err := consumption.NewConsumptionRecord(req.CustomerID, period, req.CurrentReading, previous, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Consumption record created",
		zap.String("consumption_id", record.ID.String()),
		zap.String("customer_id", record.CustomerID.String()),
		zap.String("billing_period", record.BillingPeriod.Format(shared.DateLayout)),
		zap.String("usage", record.Usage.String()))

	s.dispatcher.Dispatch(ctx, record)

	response := ToConsumptionResponse(record)
	return &response, nil
}

func (s *ConsumptionService) resolvePreviousReading(
	ctx context.Context,
	customerID uuid.UUID,
	period time.Time,
	explicit *decimal.Decimal,
) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}

	prior, err := s.repo.FindLatestBefore(ctx, customerID, period)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return prior.CurrentReading, nil
}

// GetByID returns a consumption record
func (s *ConsumptionService) GetByID(ctx context.Context, id uuid.UUID) (*ConsumptionResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToConsumptionResponse(record)
	return &response, nil
}

// List lists consumption records
func (s *ConsumptionService) List(ctx context.Context, filter ConsumptionListFilter) ([]ConsumptionResponse, int64, error) {
	domainFilter := consumption.ConsumptionFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		CustomerID: filter.CustomerID,
	}
	if filter.Status != "" {
		state, err := approval.ParseState(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.State = &state
	}

	records, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ConsumptionResponse, len(records))
	for i := range records {
		responses[i] = ToConsumptionResponse(&records[i])
	}
	return responses, total, nil
}

// Update corrects a record that is not yet approved, recomputing usage
func (s *ConsumptionService) Update(ctx context.Context, id uuid.UUID, req UpdateConsumptionRequest) (*ConsumptionResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := consumption.ConsumptionUpdate{
		CurrentReading:  req.CurrentReading,
		PreviousReading: req.PreviousReading,
	}
	if req.BillingPeriod != nil {
		period, err := shared.ParseDate(*req.BillingPeriod)
		if err != nil {
			return nil, err
		}
		changes.BillingPeriod = &period
	}

	originalPeriod := record.BillingPeriod
	if err := record.Update(changes, req.UpdatedBy); err != nil {
		return nil, err
	}

	if !record.BillingPeriod.Equal(originalPeriod) {
		exists, err := s.repo.ExistsForPeriod(ctx, record.CustomerID, record.BillingPeriod, record.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, consumption.ErrDuplicatePeriod(record.CustomerID, record.BillingPeriod)
		}
	}

	if err := s.repo.UpdateUnapproved(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Consumption record updated",
		zap.String("consumption_id", record.ID.String()),
		zap.String("usage", record.Usage.String()))

	s.dispatcher.Dispatch(ctx, record)

	response := ToConsumptionResponse(record)
	return &response, nil
}

// Delete removes a record that is not yet approved
func (s *ConsumptionService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := record.MarkDeleted(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteUnapproved(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Consumption record deleted", zap.String("consumption_id", id.String()))
	s.dispatcher.Dispatch(ctx, record)
	return nil
}

// Review approves or rejects a pending record
func (s *ConsumptionService) Review(ctx context.Context, id uuid.UUID, req appapproval.ReviewRequest) (*ConsumptionResponse, error) {
	record, err := s.workflow.Review(ctx, id, req.ToCommand())
	if err != nil {
		return nil, err
	}
	response := ToConsumptionResponse(record)
	return &response, nil
}
