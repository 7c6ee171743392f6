package dto

import (
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/supply"
)

// CreateSupplyItemRequest for creating supply items.
type CreateSupplyItemRequest struct {
	Name         string         `json:"name" binding:"required"`
	Unit         string         `json:"unit" binding:"required"`
	Category     string         `json:"category" binding:"required,oneof=Feed Medication Vaccine Equipment Other"`
	CurrentStock types.Quantity `json:"currentStock"`
	BufferStock  types.Quantity `json:"bufferStock"`
}

// ToEntity builds a supply item from the request.
func (r *CreateSupplyItemRequest) ToEntity(ownerID id.ID) *supply.Item {
	item := supply.New(ownerID, r.Name, r.Unit, supply.Category(r.Category))
	item.CurrentStock = r.CurrentStock
	item.BufferStock = r.BufferStock
	return item
}

// UpdateSupplyItemRequest edits descriptive fields and the buffer
// threshold. Stock levels move only through events, never directly.
type UpdateSupplyItemRequest struct {
	Name        string         `json:"name" binding:"required"`
	Unit        string         `json:"unit" binding:"required"`
	Category    string         `json:"category" binding:"required,oneof=Feed Medication Vaccine Equipment Other"`
	BufferStock types.Quantity `json:"bufferStock"`
}

// ApplyTo copies the editable fields onto the stored item.
func (r *UpdateSupplyItemRequest) ApplyTo(item *supply.Item) {
	item.Name = r.Name
	item.Unit = r.Unit
	item.Category = supply.Category(r.Category)
	item.BufferStock = r.BufferStock
}

// SupplyListQuery narrows supply item listings.
type SupplyListQuery struct {
	ListQuery
	Category string `form:"category" binding:"omitempty,oneof=Feed Medication Vaccine Equipment Other"`
}

// ToSupplyFilter converts query parameters to a supply list filter.
func (q *SupplyListQuery) ToSupplyFilter() (supply.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return supply.ListFilter{}, err
	}

	filter := supply.ListFilter{ListFilter: base}
	if q.Category != "" {
		cat := supply.Category(q.Category)
		filter.Category = &cat
	}
	return filter, nil
}
