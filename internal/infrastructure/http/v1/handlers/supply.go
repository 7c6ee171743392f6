package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/supply"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// SupplyHandler handles supply item endpoints.
type SupplyHandler struct {
	*BaseHandler
	service *supply.Service
}

// NewSupplyHandler creates a new supply handler.
func NewSupplyHandler(base *BaseHandler, service *supply.Service) *SupplyHandler {
	return &SupplyHandler{BaseHandler: base, service: service}
}

// List handles GET /supplies
func (h *SupplyHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.SupplyListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToSupplyFilter()
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

// ListLowStock handles GET /supplies/low-stock
func (h *SupplyHandler) ListLowStock(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	items, err := h.service.ListLowStock(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Get handles GET /supplies/:id
func (h *SupplyHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Create handles POST /supplies
func (h *SupplyHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.CreateSupplyItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToEntity(ownerID)
	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, item)
}

// Update handles PUT /supplies/:id
func (h *SupplyHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.UpdateSupplyItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(item)
	if err := h.service.Update(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /supplies/:id
func (h *SupplyHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers supply item routes.
func (h *SupplyHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/low-stock", h.ListLowStock)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
