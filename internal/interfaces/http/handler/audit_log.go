package handler

import (
	auditapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/audit"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// AuditLogHandler exposes the audit trail
type AuditLogHandler struct {
	BaseHandler
	auditService *auditapp.AuditLogService
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(auditService *auditapp.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// List godoc
//
//	@Summary	List audit entries, newest first
//	@Tags		audit-logs
//	@Router		/audit-logs [get]
func (h *AuditLogHandler) List(c *gin.Context) {
	var filter auditapp.AuditLogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	var ok bool
	if filter.RecordID, ok = h.uuidQuery(c, "record_id"); !ok {
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, entries, total, page.Page, page.PageSize)
}
