package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// MortalityHandler handles mortality record endpoints.
type MortalityHandler struct {
	*BaseHandler
	engine *reconcile.Engine
	repo   mortality.Repository
}

// NewMortalityHandler creates a new mortality handler.
func NewMortalityHandler(base *BaseHandler, engine *reconcile.Engine, repo mortality.Repository) *MortalityHandler {
	return &MortalityHandler{BaseHandler: base, engine: engine, repo: repo}
}

// List handles GET /mortality
func (h *MortalityHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
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

// Get handles GET /mortality/:id
func (h *MortalityHandler) Get(c *gin.Context) {
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

// Create handles POST /mortality
func (h *MortalityHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.MortalityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.CreateMortality(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, dto.NewRecordResult(rec, res))
}

// Update handles PUT /mortality/:id
func (h *MortalityHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.MortalityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.UpdateMortality(c.Request.Context(), recID, rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewRecordResult(rec, res))
}

// Delete handles DELETE /mortality/:id
func (h *MortalityHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	res, err := h.engine.DeleteMortality(c.Request.Context(), ownerID, recID)
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

