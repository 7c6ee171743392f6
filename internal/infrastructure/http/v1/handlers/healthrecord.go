package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// HealthRecordHandler handles health event record endpoints.
type HealthRecordHandler struct {
	*BaseHandler
	engine *reconcile.Engine
	repo   health.Repository
}

// NewHealthRecordHandler creates a new health record handler.
func NewHealthRecordHandler(base *BaseHandler, engine *reconcile.Engine, repo health.Repository) *HealthRecordHandler {
	return &HealthRecordHandler{BaseHandler: base, engine: engine, repo: repo}
}

// List handles GET /health-records
func (h *HealthRecordHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.HealthListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToHealthFilter()
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

// Get handles GET /health-records/:id
func (h *HealthRecordHandler) Get(c *gin.Context) {
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

// Create handles POST /health-records
func (h *HealthRecordHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.HealthRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.CreateHealth(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, dto.NewRecordResult(rec, res))
}

// Update handles PUT /health-records/:id
func (h *HealthRecordHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.HealthRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.UpdateHealth(c.Request.Context(), recID, rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewRecordResult(rec, res))
}

// Delete handles DELETE /health-records/:id
func (h *HealthRecordHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	res, err := h.engine.DeleteHealth(c.Request.Context(), ownerID, recID)
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

