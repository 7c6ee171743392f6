package dto

import (
	"time"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/batch"
)

// CreateBatchRequest for creating batches.
type CreateBatchRequest struct {
	Name                 string      `json:"name" binding:"required"`
	Breed                string      `json:"breed"`
	HatchDate            *time.Time  `json:"hatchDate"`
	PurchaseDate         time.Time   `json:"purchaseDate" binding:"required"`
	PurchasedChickCount  int         `json:"purchasedChickCount" binding:"min=0"`
	FreeChickCount       int         `json:"freeChickCount" binding:"min=0"`
	ChickPrice           types.Money `json:"chickPrice"`
	ProposedSellingPrice types.Money `json:"proposedSellingPricePerBird"`
	EstimatedFeedCost    types.Money `json:"estimatedFeedCost"`
}

// ToEntity builds a new batch from the request.
func (r *CreateBatchRequest) ToEntity(ownerID id.ID) *batch.Batch {
	b := batch.New(ownerID, r.Name)
	b.Breed = r.Breed
	b.HatchDate = r.HatchDate
	b.PurchaseDate = r.PurchaseDate.UTC()
	b.PurchasedChickCount = r.PurchasedChickCount
	b.FreeChickCount = r.FreeChickCount
	b.ChickPrice = r.ChickPrice
	b.ProposedSellingPrice = r.ProposedSellingPrice
	b.EstimatedFeedCost = r.EstimatedFeedCost
	return b
}

// UpdateBatchRequest edits a batch's static and budget fields.
// Reconciled totals are never writable through the API.
type UpdateBatchRequest struct {
	Name                 string      `json:"name" binding:"required"`
	Breed                string      `json:"breed"`
	HatchDate            *time.Time  `json:"hatchDate"`
	PurchaseDate         time.Time   `json:"purchaseDate" binding:"required"`
	PurchasedChickCount  int         `json:"purchasedChickCount" binding:"min=0"`
	FreeChickCount       int         `json:"freeChickCount" binding:"min=0"`
	ChickPrice           types.Money `json:"chickPrice"`
	ProposedSellingPrice types.Money `json:"proposedSellingPricePerBird"`
	EstimatedFeedCost    types.Money `json:"estimatedFeedCost"`
}

// ApplyTo copies the editable fields onto the stored batch.
func (r *UpdateBatchRequest) ApplyTo(b *batch.Batch) {
	b.Name = r.Name
	b.Breed = r.Breed
	b.HatchDate = r.HatchDate
	b.PurchaseDate = r.PurchaseDate.UTC()
	b.PurchasedChickCount = r.PurchasedChickCount
	b.FreeChickCount = r.FreeChickCount
	b.ChickPrice = r.ChickPrice
	b.ProposedSellingPrice = r.ProposedSellingPrice
	b.EstimatedFeedCost = r.EstimatedFeedCost
}

// BatchListQuery narrows batch listings.
type BatchListQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=Active Closed"`
	Breed  string `form:"breed"`
}

// ToBatchFilter converts query parameters to a batch list filter.
func (q *BatchListQuery) ToBatchFilter() (batch.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return batch.ListFilter{}, err
	}

	filter := batch.ListFilter{ListFilter: base}
	if q.Status != "" {
		status := batch.Status(q.Status)
		filter.Status = &status
	}
	if q.Breed != "" {
		filter.Breed = &q.Breed
	}
	return filter, nil
}
