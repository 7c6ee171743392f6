package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sales record endpoints.
type SalesHandler struct {
	*BaseHandler
	engine *reconcile.Engine
	repo   sales.Repository
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, engine *reconcile.Engine, repo sales.Repository) *SalesHandler {
	return &SalesHandler{BaseHandler: base, engine: engine, repo: repo}
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.SalesListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToSalesFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.repo.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	rec, err := h.repo.GetByID(c.Request.Context(), ownerID, recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Create handles POST /sales
func (h *SalesHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.CreateSale(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, dto.NewRecordResult(rec, res))
}

// Update handles PUT /sales/:id
func (h *SalesHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.UpdateSale(c.Request.Context(), recID, rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewRecordResult(rec, res))
}

// Delete handles DELETE /sales/:id
func (h *SalesHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	res, err := h.engine.DeleteSale(c.Request.Context(), ownerID, recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if len(res.Warnings) > 0 {
		h.OK(c, dto.ResultResponse{ID: recID.String(), Warnings: res.Warnings})
		return
	}
	h.NoContent(c)
}

