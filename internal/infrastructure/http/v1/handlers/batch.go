package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// BatchHandler handles batch endpoints.
type BatchHandler struct {
	*BaseHandler
	service *batch.Service
	engine  *reconcile.Engine
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(base *BaseHandler, service *batch.Service, engine *reconcile.Engine) *BatchHandler {
	return &BatchHandler{
		BaseHandler: base,
		service:     service,
		engine:      engine,
	}
}

// List handles GET /batches
func (h *BatchHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.BatchListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToBatchFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Create handles POST /batches
func (h *BatchHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity(ownerID)
	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, b)
}

// Get handles GET /batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), ownerID, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// Update handles PUT /batches/:id
func (h *BatchHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), ownerID, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(b)
	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// Delete handles DELETE /batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	hasRecords, err := h.engine.BatchHasRecords(ctx, ownerID, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, ownerID, batchID, hasRecords); err != nil {
		h.Error(c, err)
		return
	}

	if hasRecords {
		h.OK(c, dto.ResultResponse{
			ID:       batchID.String(),
			Warnings: []string{"batch had event records; they are kept as history"},
		})
		return
	}

	h.NoContent(c)
}

// Close handles POST /batches/:id/close
func (h *BatchHandler) Close(c *gin.Context) {
	h.setStatus(c, true)
}

// Reopen handles POST /batches/:id/reopen
func (h *BatchHandler) Reopen(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *BatchHandler) setStatus(c *gin.Context, closed bool) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c)
	if !ok {
		return
	}

	var (
		b   *batch.Batch
		err error
	)
	if closed {
		b, err = h.service.Close(c.Request.Context(), ownerID, batchID)
	} else {
		b, err = h.service.Reopen(c.Request.Context(), ownerID, batchID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// RegisterRoutes registers batch routes.
func (h *BatchHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/close", h.Close)
	group.POST("/:id/reopen", h.Reopen)
}
