package handler

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/audit"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/billing"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBillRepository implements billing.BillRepository for testing
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByConsumption(ctx context.Context, consumptionID uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, consumptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) ExistsForConsumption(ctx context.Context, consumptionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, consumptionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Bill), args.Get(1).(int64), args.Error(2)
}

func (m *MockBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) UpdatePaymentStatus(ctx context.Context, bill *billing.Bill, from billing.PaymentStatus) error {
	args := m.Called(ctx, bill, from)
	return args.Error(0)
}

// MockConsumptionLoader implements billingapp.ConsumptionLoader for testing
type MockConsumptionLoader struct {
	mock.Mock
}

func (m *MockConsumptionLoader) FindByID(ctx context.Context, id uuid.UUID) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

// MockPlanSelector implements billingapp.PlanSelector for testing
type MockPlanSelector struct {
	mock.Mock
}

func (m *MockPlanSelector) SelectForBilling(ctx context.Context, asOf time.Time, planID *uuid.UUID) (*tariff.TariffPlan, error) {
	args := m.Called(ctx, asOf, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.TariffPlan), args.Error(1)
}

// MockApprovalRequestRepository implements approval.ApprovalRequestRepository for testing
type MockApprovalRequestRepository struct {
	mock.Mock
}

func (m *MockApprovalRequestRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	args := m.Called(ctx, id, version, next)
	return args.Error(0)
}

func (m *MockApprovalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*approval.ApprovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRequestRepository) FindAll(ctx context.Context, filter approval.ApprovalRequestFilter) ([]approval.ApprovalRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]approval.ApprovalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockApprovalRequestRepository) Save(ctx context.Context, req *approval.ApprovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockTariffPlanRepository implements tariff.TariffPlanRepository for testing
type MockTariffPlanRepository struct {
	mock.Mock
}

func (m *MockTariffPlanRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	args := m.Called(ctx, id, version, next)
	return args.Error(0)
}

func (m *MockTariffPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.TariffPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.TariffPlan), args.Error(1)
}

func (m *MockTariffPlanRepository) FindAll(ctx context.Context, filter tariff.TariffPlanFilter) ([]tariff.TariffPlan, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]tariff.TariffPlan), args.Get(1).(int64), args.Error(2)
}

func (m *MockTariffPlanRepository) FindApprovedEffectiveOn(ctx context.Context, asOf time.Time) ([]tariff.TariffPlan, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tariff.TariffPlan), args.Error(1)
}

func (m *MockTariffPlanRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTariffPlanRepository) Create(ctx context.Context, plan *tariff.TariffPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTariffPlanRepository) UpdatePending(ctx context.Context, plan *tariff.TariffPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTariffPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockConsumptionRepository implements consumption.ConsumptionRepository for testing
type MockConsumptionRepository struct {
	mock.Mock
}

func (m *MockConsumptionRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	args := m.Called(ctx, id, version, next)
	return args.Error(0)
}

func (m *MockConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *MockConsumptionRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *MockConsumptionRepository) FindLatestBefore(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *MockConsumptionRepository) ExistsForPeriod(ctx context.Context, customerID uuid.UUID, period time.Time, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID, period, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsumptionRepository) FindAll(ctx context.Context, filter consumption.ConsumptionFilter) ([]consumption.ConsumptionRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]consumption.ConsumptionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockConsumptionRepository) Create(ctx context.Context, record *consumption.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConsumptionRepository) UpdateUnapproved(ctx context.Context, record *consumption.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConsumptionRepository) DeleteUnapproved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditLogRepository implements audit.AuditLogRepository for testing
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Save(ctx context.Context, entry *audit.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) FindAll(ctx context.Context, filter audit.AuditLogFilter) ([]audit.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]audit.AuditLog), args.Get(1).(int64), args.Error(2)
}
