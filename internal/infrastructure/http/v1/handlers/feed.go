package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// FeedHandler handles feed consumption record endpoints.
type FeedHandler struct {
	*BaseHandler
	engine *reconcile.Engine
	repo   feed.Repository
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(base *BaseHandler, engine *reconcile.Engine, repo feed.Repository) *FeedHandler {
	return &FeedHandler{BaseHandler: base, engine: engine, repo: repo}
}

// List handles GET /feed
func (h *FeedHandler) List(c *gin.Context) {
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

// Get handles GET /feed/:id
func (h *FeedHandler) Get(c *gin.Context) {
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

// Create handles POST /feed
func (h *FeedHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.FeedRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.CreateFeed(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, dto.NewRecordResult(rec, res))
}

// Update handles PUT /feed/:id
func (h *FeedHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.FeedRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.UpdateFeed(c.Request.Context(), recID, rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewRecordResult(rec, res))
}

// Delete handles DELETE /feed/:id
func (h *FeedHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	res, err := h.engine.DeleteFeed(c.Request.Context(), ownerID, recID)
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

