package handler

import (
	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ApprovalRequestHandler handles generic approval request endpoints
type ApprovalRequestHandler struct {
	BaseHandler
	requestService *appapproval.ApprovalRequestService
}

// NewApprovalRequestHandler creates a new ApprovalRequestHandler
func NewApprovalRequestHandler(requestService *appapproval.ApprovalRequestService) *ApprovalRequestHandler {
	return &ApprovalRequestHandler{requestService: requestService}
}

// Submit godoc
//
//	@Summary	Open an approval request for a record of any module
//	@Tags		approval-requests
//	@Router		/approval-requests [post]
func (h *ApprovalRequestHandler) Submit(c *gin.Context) {
	var req appapproval.SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.RequestedBy = getActorID(c)

	request, err := h.requestService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// GetByID godoc
//
//	@Summary	Get an approval request
//	@Tags		approval-requests
//	@Router		/approval-requests/{id} [get]
func (h *ApprovalRequestHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// ListPending godoc
//
//	@Summary	List approval requests awaiting review, oldest first
//	@Tags		approval-requests
//	@Router		/approval-requests/pending [get]
func (h *ApprovalRequestHandler) ListPending(c *gin.Context) {
	var filter appapproval.ApprovalRequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	requests, total, err := h.requestService.ListPending(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, requests, total, page.Page, page.PageSize)
}

// Review godoc
//
//	@Summary	Approve or reject a pending approval request
//	@Tags		approval-requests
//	@Router		/approval-requests/{id}/review [post]
func (h *ApprovalRequestHandler) Review(c *gin.Context) {
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

	request, err := h.requestService.Review(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}
