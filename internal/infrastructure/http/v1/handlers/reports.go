package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reports"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetIncomeStatement handles GET /reports/income-statement
func (h *ReportsHandler) GetIncomeStatement(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GetIncomeStatement(c.Request.Context(), ownerID, query.ToPeriod())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetCashFlow handles GET /reports/cash-flow
func (h *ReportsHandler) GetCashFlow(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GetCashFlowStatement(c.Request.Context(), ownerID, query.ToPeriod())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetBatchPerformance handles GET /reports/batch-performance
func (h *ReportsHandler) GetBatchPerformance(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	report, err := h.service.GetBatchPerformance(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/income-statement", h.GetIncomeStatement)
	rg.GET("/cash-flow", h.GetCashFlow)
	rg.GET("/batch-performance", h.GetBatchPerformance)
}
