package handler

import (
	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	consumptionapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ConsumptionHandler handles meter reading endpoints
type ConsumptionHandler struct {
	BaseHandler
	consumptionService *consumptionapp.ConsumptionService
}

// NewConsumptionHandler creates a new ConsumptionHandler
func NewConsumptionHandler(consumptionService *consumptionapp.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{consumptionService: consumptionService}
}

// Create godoc
//
//	@Summary	Record a meter reading for a customer and billing month
//	@Tags		consumptions
//	@Router		/consumptions [post]
func (h *ConsumptionHandler) Create(c *gin.Context) {
	var req consumptionapp.CreateConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	record, err := h.consumptionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetByID godoc
//
//	@Summary	Get a consumption record
//	@Tags		consumptions
//	@Router		/consumptions/{id} [get]
func (h *ConsumptionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.consumptionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List godoc
//
//	@Summary	List consumption records
//	@Tags		consumptions
//	@Router		/consumptions [get]
func (h *ConsumptionHandler) List(c *gin.Context) {
	var filter consumptionapp.ConsumptionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	var ok bool
	if filter.CustomerID, ok = h.uuidQuery(c, "customer_id"); !ok {
		return
	}

	records, total, err := h.consumptionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, records, total, page.Page, page.PageSize)
}

// Update godoc
//
//	@Summary	Correct a reading that is not yet approved
//	@Tags		consumptions
//	@Router		/consumptions/{id} [put]
func (h *ConsumptionHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req consumptionapp.UpdateConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.UpdatedBy = getActorID(c)

	record, err := h.consumptionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete godoc
//
//	@Summary	Delete a reading that is not yet approved
//	@Tags		consumptions
//	@Router		/consumptions/{id} [delete]
func (h *ConsumptionHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.consumptionService.Delete(c.Request.Context(), id, getActorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Review godoc
//
//	@Summary	Approve or reject a pending reading
//	@Tags		consumptions
//	@Router		/consumptions/{id}/review [post]
func (h *ConsumptionHandler) Review(c *gin.Context) {
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

	record, err := h.consumptionService.Review(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
