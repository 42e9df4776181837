package consumption

import (
	"context"
	"errors"
	"testing"
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockConsumptionRepo is a mock implementation of consumption.ConsumptionRepository
type mockConsumptionRepo struct {
	mock.Mock
}

func (m *mockConsumptionRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, version int, next approval.Approval) error {
	args := m.Called(ctx, id, version, next)
	return args.Error(0)
}

func (m *mockConsumptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *mockConsumptionRepo) FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *mockConsumptionRepo) FindLatestBefore(ctx context.Context, customerID uuid.UUID, period time.Time) (*consumption.ConsumptionRecord, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consumption.ConsumptionRecord), args.Error(1)
}

func (m *mockConsumptionRepo) ExistsForPeriod(ctx context.Context, customerID uuid.UUID, period time.Time, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID, period, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConsumptionRepo) FindAll(ctx context.Context, filter consumption.ConsumptionFilter) ([]consumption.ConsumptionRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]consumption.ConsumptionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockConsumptionRepo) Create(ctx context.Context, record *consumption.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockConsumptionRepo) UpdateUnapproved(ctx context.Context, record *consumption.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockConsumptionRepo) DeleteUnapproved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	jan = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func existingRecord(t *testing.T, customerID uuid.UUID, period time.Time, current, previous string) *consumption.ConsumptionRecord {
	t.Helper()
	record, err := consumption.NewConsumptionRecord(customerID, period, dec(current), dec(previous), uuid.New())
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func TestConsumptionService_Create_ResolvesPreviousReading(t *testing.T) {
	ctx := context.Background()
	repo := new(mockConsumptionRepo)
	customerID := uuid.New()
	prior := existingRecord(t, customerID, jan, "150", "0")

	repo.On("ExistsForPeriod", ctx, customerID, feb, uuid.Nil).Return(false, nil)
	repo.On("FindLatestBefore", ctx, customerID, feb).Return(prior, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*consumption.ConsumptionRecord")).Return(nil)

	svc := NewConsumptionService(repo, zap.NewNop())
	resp, err := svc.Create(ctx, CreateConsumptionRequest{
		CustomerID:     customerID,
		BillingPeriod:  "2025-02-01",
		CurrentReading: dec("230"),
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)

	assert.True(t, resp.PreviousReading.Equal(dec("150")), "previous = %s", resp.PreviousReading)
	assert.True(t, resp.Consumption.Equal(dec("80")))
	assert.Equal(t, approval.NamePending, resp.Status)
	repo.AssertExpectations(t)
}

func TestConsumptionService_Create_FirstReadingDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	repo := new(mockConsumptionRepo)
	customerID := uuid.New()

	repo.On("ExistsForPeriod", ctx, customerID, jan, uuid.Nil).Return(false, nil)
	repo.On("FindLatestBefore", ctx, customerID, jan).Return(nil, shared.NotFound("ConsumptionRecord", customerID))
	repo.On("Create", ctx, mock.Anything).Return(nil)

	resp, err := NewConsumptionService(repo, zap.NewNop()).Create(ctx, CreateConsumptionRequest{
		CustomerID: customerID, BillingPeriod: "2025-01-01", CurrentReading: dec("42"), CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, resp.PreviousReading.IsZero())
	assert.True(t, resp.Consumption.Equal(dec("42")))
}

func TestConsumptionService_Create_ExplicitPreviousReading(t *testing.T) {
	ctx := context.Background()
	repo := new(mockConsumptionRepo)
	customerID := uuid.New()
	previous := dec("0")

	repo.On("ExistsForPeriod", ctx, customerID, feb, uuid.Nil).Return(false, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	resp, err := NewConsumptionService(repo, zap.NewNop()).Create(ctx, CreateConsumptionRequest{
		CustomerID: customerID, BillingPeriod: "2025-02-01", CurrentReading: dec("12"),
		PreviousReading: &previous, CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Consumption.Equal(dec("12")))
	repo.AssertNotCalled(t, "FindLatestBefore", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumptionService_Create_DuplicatePeriod(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("pre-check finds existing record", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		repo.On("ExistsForPeriod", ctx, customerID, feb, uuid.Nil).Return(true, nil)

		_, err := NewConsumptionService(repo, zap.NewNop()).Create(ctx, CreateConsumptionRequest{
			CustomerID: customerID, BillingPeriod: "2025-02-01", CurrentReading: dec("200"), CreatedBy: uuid.New(),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrConflict))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index wins a concurrent race", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		repo.On("ExistsForPeriod", ctx, customerID, feb, uuid.Nil).Return(false, nil)
		repo.On("FindLatestBefore", ctx, customerID, feb).Return(nil, shared.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(consumption.ErrDuplicatePeriod(customerID, feb))

		_, err := NewConsumptionService(repo, zap.NewNop()).Create(ctx, CreateConsumptionRequest{
			CustomerID: customerID, BillingPeriod: "2025-02-01", CurrentReading: dec("200"), CreatedBy: uuid.New(),
		})
		assert.True(t, errors.Is(err, shared.ErrConflict))
	})
}

func TestConsumptionService_Create_RejectsMeterRollback(t *testing.T) {
	ctx := context.Background()
	repo := new(mockConsumptionRepo)
	customerID := uuid.New()
	prior := existingRecord(t, customerID, jan, "150", "0")

	repo.On("ExistsForPeriod", ctx, customerID, feb, uuid.Nil).Return(false, nil)
	repo.On("FindLatestBefore", ctx, customerID, feb).Return(prior, nil)

	_, err := NewConsumptionService(repo, zap.NewNop()).Create(ctx, CreateConsumptionRequest{
		CustomerID: customerID, BillingPeriod: "2025-02-01", CurrentReading: dec("100"), CreatedBy: uuid.New(),
	})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConsumptionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes usage", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		record := existingRecord(t, uuid.New(), feb, "230", "150")
		repo.On("FindByID", ctx, record.ID).Return(record, nil)
		repo.On("UpdateUnapproved", ctx, record).Return(nil)

		current := dec("260")
		resp, err := NewConsumptionService(repo, zap.NewNop()).Update(ctx, record.ID, UpdateConsumptionRequest{
			CurrentReading: &current, UpdatedBy: uuid.New(),
		})
		require.NoError(t, err)
		assert.True(t, resp.Consumption.Equal(dec("110")))
	})

	t.Run("moving to an occupied period is a conflict", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		record := existingRecord(t, uuid.New(), feb, "230", "150")
		repo.On("FindByID", ctx, record.ID).Return(record, nil)
		repo.On("ExistsForPeriod", ctx, record.CustomerID, jan, record.ID).Return(true, nil)

		period := "2025-01-01"
		_, err := NewConsumptionService(repo, zap.NewNop()).Update(ctx, record.ID, UpdateConsumptionRequest{
			BillingPeriod: &period, UpdatedBy: uuid.New(),
		})
		assert.True(t, errors.Is(err, shared.ErrConflict))
		repo.AssertNotCalled(t, "UpdateUnapproved", mock.Anything, mock.Anything)
	})

	t.Run("approved record is immutable", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		record := existingRecord(t, uuid.New(), feb, "230", "150")
		require.NoError(t, approval.Review(record, approval.StateApproved, uuid.New(), "", time.Now()))
		repo.On("FindByID", ctx, record.ID).Return(record, nil)

		current := dec("260")
		_, err := NewConsumptionService(repo, zap.NewNop()).Update(ctx, record.ID, UpdateConsumptionRequest{
			CurrentReading: &current, UpdatedBy: uuid.New(),
		})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestConsumptionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("approved record cannot be deleted", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		record := existingRecord(t, uuid.New(), feb, "230", "150")
		require.NoError(t, approval.Review(record, approval.StateApproved, uuid.New(), "", time.Now()))
		repo.On("FindByID", ctx, record.ID).Return(record, nil)

		err := NewConsumptionService(repo, zap.NewNop()).Delete(ctx, record.ID, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		repo.AssertNotCalled(t, "DeleteUnapproved", mock.Anything, mock.Anything)
	})

	t.Run("pending record is deleted", func(t *testing.T) {
		repo := new(mockConsumptionRepo)
		record := existingRecord(t, uuid.New(), feb, "230", "150")
		repo.On("FindByID", ctx, record.ID).Return(record, nil)
		repo.On("DeleteUnapproved", ctx, record.ID).Return(nil)

		require.NoError(t, NewConsumptionService(repo, zap.NewNop()).Delete(ctx, record.ID, uuid.New()))
		repo.AssertExpectations(t)
	})
}

func TestConsumptionService_Review(t *testing.T) {
	ctx := context.Background()
	repo := new(mockConsumptionRepo)
	record := existingRecord(t, uuid.New(), feb, "230", "150")
	repo.On("FindByID", ctx, record.ID).Return(record, nil)
	repo.On("TransitionFromPending", ctx, record.ID, mock.Anything, mock.Anything).Return(nil)

	svc := NewConsumptionService(repo, zap.NewNop())
	resp, err := svc.Review(ctx, record.ID, appapproval.ReviewRequest{Decision: "Approved", Comments: "verified", ReviewerID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, approval.NameApproved, resp.Status)
	assert.Equal(t, "verified", resp.Comments)

	_, err = svc.Review(ctx, record.ID, appapproval.ReviewRequest{Decision: "Rejected", ReviewerID: uuid.New()})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}
