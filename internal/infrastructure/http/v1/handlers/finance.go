package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/finance"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// FinanceHandler handles financial transaction endpoints.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// List handles GET /transactions
func (h *FinanceHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.TransactionListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToTransactionFilter()
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

// Get handles GET /transactions/:id
func (h *FinanceHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	txID, ok := h.PathID(c)
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), ownerID, txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Create handles POST /transactions
func (h *FinanceHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t := req.ToEntity(ownerID)
	if err := h.service.Create(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, t)
}

// Update handles PUT /transactions/:id
func (h *FinanceHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	txID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), ownerID, txID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(t)
	if err := h.service.Update(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Delete handles DELETE /transactions/:id
func (h *FinanceHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	txID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers financial transaction routes.
func (h *FinanceHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
