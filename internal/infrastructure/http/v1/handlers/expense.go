package handlers

import (
	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler handles expense record endpoints.
type ExpenseHandler struct {
	*BaseHandler
	engine *reconcile.Engine
	repo   expense.Repository
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(base *BaseHandler, engine *reconcile.Engine, repo expense.Repository) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, engine: engine, repo: repo}
}

// List handles GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.ExpenseListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToExpenseFilter()
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

// Get handles GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
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

// Create handles POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.CreateExpense(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedData(c, dto.NewRecordResult(rec, res))
}

// Update handles PUT /expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := req.ToEntity(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.engine.UpdateExpense(c.Request.Context(), recID, rec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewRecordResult(rec, res))
}

// Delete handles DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	res, err := h.engine.DeleteExpense(c.Request.Context(), ownerID, recID)
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

