package router

import (
	"net/http"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/dto"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// APIHandlers holds every handler exposed under the versioned API
type APIHandlers struct {
	TariffPlans      *handler.TariffPlanHandler
	Consumptions     *handler.ConsumptionHandler
	Bills            *handler.BillHandler
	ApprovalRequests *handler.ApprovalRequestHandler
	AuditLogs        *handler.AuditLogHandler
	System           *handler.SystemHandler
}

// RegisterAPI registers the domain groups of the water tariff API
func RegisterAPI(r *Router, h APIHandlers) {
	tariffRoutes := NewDomainGroup("tariff", "/tariff-plans")
	tariffRoutes.POST("", h.TariffPlans.Create).Describe("Create a pending tariff plan")
	tariffRoutes.GET("", h.TariffPlans.List).Describe("List tariff plans")
	tariffRoutes.GET("/active", h.TariffPlans.ListActive).Describe("List plans in effect on a date")
	tariffRoutes.POST("/calculate", h.TariffPlans.Calculate).Describe("Preview a slab calculation")
	tariffRoutes.GET("/:id", h.TariffPlans.GetByID)
	tariffRoutes.PUT("/:id", h.TariffPlans.Update)
	tariffRoutes.DELETE("/:id", h.TariffPlans.Delete)
	tariffRoutes.POST("/:id/review", h.TariffPlans.Review).Describe("Approve or reject a tariff plan")

	consumptionRoutes := NewDomainGroup("consumption", "/consumptions")
	consumptionRoutes.POST("", h.Consumptions.Create).Describe("Record a meter reading")
	consumptionRoutes.GET("", h.Consumptions.List)
	consumptionRoutes.GET("/:id", h.Consumptions.GetByID)
	consumptionRoutes.PUT("/:id", h.Consumptions.Update)
	consumptionRoutes.DELETE("/:id", h.Consumptions.Delete)
	consumptionRoutes.POST("/:id/review", h.Consumptions.Review).Describe("Approve or reject a consumption record")
	consumptionRoutes.GET("/:id/bill", h.Bills.GetByConsumption)

	billRoutes := NewDomainGroup("billing", "/bills")
	billRoutes.POST("", h.Bills.Generate).Describe("Issue the bill of an approved consumption record")
	billRoutes.GET("", h.Bills.List)
	billRoutes.GET("/:id", h.Bills.GetByID)
	billRoutes.POST("/:id/pay", h.Bills.MarkPaid)
	billRoutes.POST("/:id/overdue", h.Bills.MarkOverdue)

	approvalRoutes := NewDomainGroup("approval", "/approval-requests")
	approvalRoutes.POST("", h.ApprovalRequests.Submit)
	approvalRoutes.GET("/pending", h.ApprovalRequests.ListPending).Describe("List requests awaiting review")
	approvalRoutes.GET("/:id", h.ApprovalRequests.GetByID)
	approvalRoutes.POST("/:id/review", h.ApprovalRequests.Review)

	auditRoutes := NewDomainGroup("audit", "/audit-logs")
	auditRoutes.GET("", h.AuditLogs.List).Describe("List audit entries, newest first")

	healthRoutes := NewDomainGroup("health", "/health")
	healthRoutes.GET("/live", h.System.Live)
	healthRoutes.GET("/ready", h.System.Ready)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)
	systemRoutes.GET("/routes", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(r.Routes()))
	}).Describe("List the registered API routes")

	r.Register(tariffRoutes).
		Register(consumptionRoutes).
		Register(billRoutes).
		Register(approvalRoutes).
		Register(auditRoutes).
		Register(healthRoutes).
		Register(systemRoutes)
}
