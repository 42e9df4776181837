package handler

import (
	billingapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/billing"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// BillHandler handles bill endpoints
type BillHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billingService *billingapp.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// Generate godoc
//
//	@Summary	Issue the bill for an approved consumption record
//	@Tags		bills
//	@Router		/bills [post]
func (h *BillHandler) Generate(c *gin.Context) {
	var req billingapp.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IssuedBy = getActorID(c)

	bill, err := h.billingService.GenerateForConsumption(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// GetByID godoc
//
//	@Summary	Get a bill
//	@Tags		bills
//	@Router		/bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// GetByConsumption godoc
//
//	@Summary	Get the bill issued for a consumption record
//	@Tags		bills
//	@Router		/consumptions/{id}/bill [get]
func (h *BillHandler) GetByConsumption(c *gin.Context) {
	consumptionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billingService.FindByConsumption(c.Request.Context(), consumptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// List godoc
//
//	@Summary	List bills, latest billing month first
//	@Tags		bills
//	@Router		/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	var ok bool
	if filter.CustomerID, ok = h.uuidQuery(c, "customer_id"); !ok {
		return
	}

	bills, total, err := h.billingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, bills, total, page.Page, page.PageSize)
}

// MarkPaid godoc
//
//	@Summary	Record payment of an unpaid bill
//	@Tags		bills
//	@Router		/bills/{id}/pay [post]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billingService.MarkPaid(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// MarkOverdue godoc
//
//	@Summary	Flag an unpaid bill as overdue
//	@Tags		bills
//	@Router		/bills/{id}/overdue [post]
func (h *BillHandler) MarkOverdue(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billingService.MarkOverdue(c.Request.Context(), id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}
