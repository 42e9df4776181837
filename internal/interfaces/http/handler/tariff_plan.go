package handler

import (
	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	tariffapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// TariffPlanHandler handles tariff plan endpoints
type TariffPlanHandler struct {
	BaseHandler
	tariffService *tariffapp.TariffService
}

// NewTariffPlanHandler creates a new TariffPlanHandler
func NewTariffPlanHandler(tariffService *tariffapp.TariffService) *TariffPlanHandler {
	return &TariffPlanHandler{tariffService: tariffService}
}

// ActivePlansQuery selects the date active plans are listed for
type ActivePlansQuery struct {
	AsOf string `form:"as_of"`
}

// Create godoc
//
//	@Summary	Create a pending tariff plan with its slabs
//	@Tags		tariff-plans
//	@Router		/tariff-plans [post]
func (h *TariffPlanHandler) Create(c *gin.Context) {
	var req tariffapp.CreateTariffPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	plan, err := h.tariffService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// GetByID godoc
//
//	@Summary	Get a tariff plan with slabs sorted by order
//	@Tags		tariff-plans
//	@Router		/tariff-plans/{id} [get]
func (h *TariffPlanHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.tariffService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// List godoc
//
//	@Summary	List tariff plans
//	@Tags		tariff-plans
//	@Router		/tariff-plans [get]
func (h *TariffPlanHandler) List(c *gin.Context) {
	var filter tariffapp.TariffPlanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	plans, total, err := h.tariffService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, plans, total, page.Page, page.PageSize)
}

// ListActive godoc
//
//	@Summary	List approved plans in effect on a date, highest precedence first
//	@Tags		tariff-plans
//	@Param		as_of	query	string	false	"Date (YYYY-MM-DD), defaults to today"
//	@Router		/tariff-plans/active [get]
func (h *TariffPlanHandler) ListActive(c *gin.Context) {
	var query ActivePlansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	asOf := h.tariffService.Today()
	if query.AsOf != "" {
		parsed, err := shared.ParseDate(query.AsOf)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		asOf = parsed
	}

	plans, err := h.tariffService.ActivePlanResponses(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// Update godoc
//
//	@Summary	Update a pending tariff plan, replacing its slabs when given
//	@Tags		tariff-plans
//	@Router		/tariff-plans/{id} [put]
func (h *TariffPlanHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tariffapp.UpdateTariffPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.UpdatedBy = getActorID(c)

	plan, err := h.tariffService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Delete godoc
//
//	@Summary	Delete a tariff plan that is not approved
//	@Tags		tariff-plans
//	@Router		/tariff-plans/{id} [delete]
func (h *TariffPlanHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tariffService.Delete(c.Request.Context(), id, getActorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Review godoc
//
//	@Summary	Approve or reject a pending tariff plan
//	@Tags		tariff-plans
//	@Router		/tariff-plans/{id}/review [post]
func (h *TariffPlanHandler) Review(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appapproval.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ReviewerID = getActorID(c)

	plan, err := h.tariffService.Review(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Calculate godoc
//
//	@Summary	Preview the charge for a consumption quantity
//	@Tags		tariff-plans
//	@Router		/tariff-plans/calculate [post]
func (h *TariffPlanHandler) Calculate(c *gin.Context) {
	var req tariffapp.CalculateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.tariffService.CalculateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
