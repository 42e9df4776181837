// Package billing issues water bills for approved consumption records and
// tracks their payment status.
package billing

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/billing"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConsumptionLoader loads the consumption record a bill is generated for
type ConsumptionLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*consumption.ConsumptionRecord, error)
}

// PlanSelector resolves the tariff plan to bill with on a date
type PlanSelector interface {
	SelectForBilling(ctx context.Context, asOf time.Time, planID *uuid.UUID) (*tariff.TariffPlan, error)
}

// BillingMetrics records billing business metrics
type BillingMetrics interface {
	RecordBillIssued(ctx context.Context, amount decimal.Decimal)
	RecordBillPaid(ctx context.Context, amount decimal.Decimal)
}

// BillingService links bills to consumption records one-to-one
type BillingService struct {
	billRepo     billing.BillRepository
	consumptions ConsumptionLoader
	plans        PlanSelector
	dispatcher   *event.Dispatcher
	metrics      BillingMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBillingService creates a new BillingService
func NewBillingService(
	billRepo billing.BillRepository,
	consumptions ConsumptionLoader,
	plans PlanSelector,
	logger *zap.Logger,
) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		billRepo:     billRepo,
		consumptions: consumptions,
		plans:        plans,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetDispatcher sets the event dispatcher
func (s *BillingService) SetDispatcher(dispatcher *event.Dispatcher) {
	s.dispatcher = dispatcher
}

// SetMetrics sets the billing metrics recorder
func (s *BillingService) SetMetrics(metrics BillingMetrics) {
	s.metrics = metrics
}

// Issue prices the record's usage with plan and stores the bill. A second
// bill for the same consumption record is a Conflict.
func (s *BillingService) Issue(
	ctx context.Context,
	record *consumption.ConsumptionRecord,
	plan *tariff.TariffPlan,
	issuedBy uuid.UUID,
) (*billing.Bill, error) {
	exists, err := s.billRepo.ExistsForConsumption(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, billing.ErrBillAlreadyIssued(record.ID)
	}

	calc, err := plan.Calculate(record.Usage)
	if err != nil {
		return nil, err
	}

	bill, err := billing.IssueBill(record, plan, calc, issuedBy)
	if err != nil {
		return nil, err
	}

	// The unique index on consumption_id rejects a concurrent duplicate here
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("Bill issued",
		zap.String("bill_id", bill.ID.String()),
		zap.String("consumption_id", record.ID.String()),
		zap.String("tariff_plan_id", plan.ID.String()),
		zap.String("total_amount", bill.TotalAmount.StringFixed(tariff.AmountPrecision)))

	if s.metrics != nil {
		s.metrics.RecordBillIssued(ctx, bill.TotalAmount)
	}
	s.dispatcher.Dispatch(ctx, bill)
	return bill, nil
}

// GenerateForConsumption loads the record, selects the plan effective on its
// billing period (or the requested plan) and issues the bill.
func (s *BillingService) GenerateForConsumption(ctx context.Context, req GenerateBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "generate_for_consumption",
		telemetry.SpanAttrConsumptionID, req.ConsumptionID.String(),
	)
	defer span.End()

	record, err := s.consumptions.FindByID(ctx, req.ConsumptionID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	plan, err := s.plans.SelectForBilling(ctx, record.BillingPeriod, req.PlanID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, record.CustomerID.String(),
		telemetry.SpanAttrPlanID, plan.ID.String(),
		telemetry.SpanAttrUsage, record.Usage.String(),
	)

	bill, err := s.Issue(ctx, record, plan, req.IssuedBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillID, bill.ID.String(),
		telemetry.SpanAttrAmount, bill.TotalAmount.String(),
	)

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID returns a bill
func (s *BillingService) GetByID(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// FindByConsumption returns the bill linked to a consumption record
func (s *BillingService) FindByConsumption(ctx context.Context, consumptionID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByConsumption(ctx, consumptionID)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// List lists bills
func (s *BillingService) List(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter := billing.BillFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		CustomerID: filter.CustomerID,
	}
	if filter.Status != "" {
		status := billing.PaymentStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.InvalidArgument("INVALID_PAYMENT_STATUS", "Unknown payment status: "+filter.Status)
		}
		domainFilter.PaymentStatus = &status
	}

	bills, total, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses, total, nil
}

// MarkPaid records payment of a bill
func (s *BillingService) MarkPaid(ctx context.Context, id, actor uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := bill.PaymentStatus
	if err := bill.MarkPaid(actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.billRepo.UpdatePaymentStatus(ctx, bill, from); err != nil {
		return nil, err
	}

	s.logger.Info("Bill paid",
		zap.String("bill_id", bill.ID.String()),
		zap.String("previous_status", from.String()))

	if s.metrics != nil {
		s.metrics.RecordBillPaid(ctx, bill.TotalAmount)
	}
	s.dispatcher.Dispatch(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}

// MarkOverdue flags an unpaid bill as overdue
func (s *BillingService) MarkOverdue(ctx context.Context, id, actor uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := bill.PaymentStatus
	if err := bill.MarkOverdue(actor); err != nil {
		return nil, err
	}
	if err := s.billRepo.UpdatePaymentStatus(ctx, bill, from); err != nil {
		return nil, err
	}

	s.logger.Info("Bill marked overdue", zap.String("bill_id", bill.ID.String()))
	s.dispatcher.Dispatch(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}
