package handler

import (
	"net/http"
	"testing"
	"time"

	tariffapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTariffPlanEngine(repo *MockTariffPlanRepository) *gin.Engine {
	h := NewTariffPlanHandler(tariffapp.NewTariffService(repo, nil))
	engine := newTestEngine(uuid.New())
	engine.POST("/tariff-plans", h.Create)
	engine.GET("/tariff-plans", h.List)
	engine.GET("/tariff-plans/active", h.ListActive)
	engine.POST("/tariff-plans/calculate", h.Calculate)
	engine.GET("/tariff-plans/:id", h.GetByID)
	engine.PUT("/tariff-plans/:id", h.Update)
	engine.DELETE("/tariff-plans/:id", h.Delete)
	engine.POST("/tariff-plans/:id/review", h.Review)
	return engine
}

func approvedPlan(t *testing.T) *tariff.TariffPlan {
	t.Helper()
	plan := residentialPlan(t)
	require.NoError(t, approval.Review(plan, approval.StateApproved, uuid.New(), "", time.Now()))
	plan.ClearDomainEvents()
	return plan
}

func TestTariffPlanHandler_Create(t *testing.T) {
	t.Run("creates a pending plan", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		creator := uuid.New()

		repo.On("ExistsByName", mock.Anything, "Residential 2025", uuid.Nil).Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*tariff.TariffPlan")).Return(nil)

		w := performRequest(engine, http.MethodPost, "/tariff-plans", map[string]any{
			"name":           "Residential 2025",
			"effective_from": "2025-01-01",
			"slabs": []map[string]any{
				{"slab_order": 1, "min_consumption": "0", "max_consumption": "10", "rate_per_unit": "1.50"},
				{"slab_order": 2, "min_consumption": "10", "rate_per_unit": "2.00"},
			},
		}, middleware.ActorHeader, creator.String())

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		env := decodeEnvelope[tariffapp.TariffPlanResponse](t, w)
		assert.Equal(t, "Pending", env.Data.Status)
		assert.Equal(t, creator, env.Data.CreatedBy)
		assert.Equal(t, "2025-01-01", env.Data.EffectiveFrom)
		require.Len(t, env.Data.Slabs, 2)
		assert.Equal(t, "10-Unlimited", env.Data.Slabs[1].Range)
		repo.AssertExpectations(t)
	})

	t.Run("gap between slabs is rejected before any lookup", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)

		w := performRequest(engine, http.MethodPost, "/tariff-plans", map[string]any{
			"name":           "Gapped",
			"effective_from": "2025-01-01",
			"slabs": []map[string]any{
				{"slab_order": 1, "min_consumption": "0", "max_consumption": "10", "rate_per_unit": "1.50"},
				{"slab_order": 2, "min_consumption": "12", "rate_per_unit": "2.00"},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope[any](t, w)
		assert.Equal(t, "SLABS_NOT_CONTIGUOUS", env.Error.Code)
		repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name is 409", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		repo.On("ExistsByName", mock.Anything, "Residential", uuid.Nil).Return(true, nil)

		w := performRequest(engine, http.MethodPost, "/tariff-plans", map[string]any{
			"name":           "Residential",
			"effective_from": "2025-01-01",
			"slabs": []map[string]any{
				{"slab_order": 1, "min_consumption": "0", "rate_per_unit": "1.50"},
			},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope[any](t, w)
		assert.Equal(t, "DUPLICATE_PLAN_NAME", env.Error.Code)
	})

	t.Run("malformed date is 400", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)

		w := performRequest(engine, http.MethodPost, "/tariff-plans", map[string]any{
			"name":           "Residential",
			"effective_from": "01/01/2025",
			"slabs": []map[string]any{
				{"slab_order": 1, "min_consumption": "0", "rate_per_unit": "1.50"},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope[any](t, w)
		assert.Equal(t, "INVALID_DATE", env.Error.Code)
	})
}

func TestTariffPlanHandler_ListActive(t *testing.T) {
	repo := new(MockTariffPlanRepository)
	engine := newTariffPlanEngine(repo)
	plan := approvedPlan(t)
	asOf := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	repo.On("FindApprovedEffectiveOn", mock.Anything, asOf).Return([]tariff.TariffPlan{*plan}, nil)

	w := performRequest(engine, http.MethodGet, "/tariff-plans/active?as_of=2025-06-15", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope[[]tariffapp.TariffPlanResponse](t, w)
	require.Len(t, env.Data, 1)
	assert.Equal(t, plan.ID, env.Data[0].ID)
}

func TestTariffPlanHandler_ListActive_InvalidDate(t *testing.T) {
	repo := new(MockTariffPlanRepository)
	engine := newTariffPlanEngine(repo)

	w := performRequest(engine, http.MethodGet, "/tariff-plans/active?as_of=June", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "FindApprovedEffectiveOn", mock.Anything, mock.Anything)
}

func TestTariffPlanHandler_Calculate(t *testing.T) {
	t.Run("explicit plan", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		plan := residentialPlan(t)
		repo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		w := performRequest(engine, http.MethodPost, "/tariff-plans/calculate", map[string]any{
			"consumption":    "25",
			"tariff_plan_id": plan.ID,
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decodeEnvelope[tariffapp.CalculationResponse](t, w)
		assert.True(t, dec("45").Equal(env.Data.TotalAmount), env.Data.TotalAmount.String())
		require.Len(t, env.Data.Breakdown, 2)
		assert.True(t, dec("15").Equal(env.Data.Breakdown[1].Units))
		repo.AssertNotCalled(t, "FindApprovedEffectiveOn", mock.Anything, mock.Anything)
	})

	t.Run("no active plan is 404", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		repo.On("FindApprovedEffectiveOn", mock.Anything, mock.Anything).Return([]tariff.TariffPlan{}, nil)

		w := performRequest(engine, http.MethodPost, "/tariff-plans/calculate", map[string]any{"consumption": "5"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope[any](t, w)
		assert.Equal(t, "NO_ACTIVE_PLAN", env.Error.Code)
	})

	t.Run("negative consumption is 400", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		plan := residentialPlan(t)
		repo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		w := performRequest(engine, http.MethodPost, "/tariff-plans/calculate", map[string]any{
			"consumption":    "-1",
			"tariff_plan_id": plan.ID,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTariffPlanHandler_Review(t *testing.T) {
	repo := new(MockTariffPlanRepository)
	engine := newTariffPlanEngine(repo)
	plan := residentialPlan(t)
	reviewer := uuid.New()

	repo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
	repo.On("TransitionFromPending", mock.Anything, plan.ID, mock.Anything, mock.Anything).Return(nil)

	w := performRequest(engine, http.MethodPost, "/tariff-plans/"+plan.ID.String()+"/review",
		map[string]any{"decision": "Rejected", "comments": "rates too high"},
		middleware.ActorHeader, reviewer.String())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope[tariffapp.TariffPlanResponse](t, w)
	assert.Equal(t, "Rejected", env.Data.Status)
	require.NotNil(t, env.Data.ReviewedBy)
	assert.Equal(t, reviewer, *env.Data.ReviewedBy)
}

func TestTariffPlanHandler_Delete(t *testing.T) {
	t.Run("pending plan", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		plan := residentialPlan(t)
		repo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		repo.On("Delete", mock.Anything, plan.ID).Return(nil)

		w := performRequest(engine, http.MethodDelete, "/tariff-plans/"+plan.ID.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("approved plan cannot be deleted", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		plan := approvedPlan(t)
		repo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		w := performRequest(engine, http.MethodDelete, "/tariff-plans/"+plan.ID.String(), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown plan", func(t *testing.T) {
		repo := new(MockTariffPlanRepository)
		engine := newTariffPlanEngine(repo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.NotFound("TariffPlan", id))

		w := performRequest(engine, http.MethodDelete, "/tariff-plans/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
