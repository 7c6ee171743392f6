// Package expense provides the expense event record. An expense may be
// tagged as a supply purchase (restocking that item) or as a batch's
// chick purchase; untagged expenses are general operating costs.
package expense

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// Common declared categories. Free-form values are allowed.
const (
	CategoryFeed       = "Feed"
	CategoryChicks     = "Chicks"
	CategoryMedication = "Medication"
	CategoryLabor      = "Labor"
	CategoryUtilities  = "Utilities"
	CategoryTransport  = "Transport"
	CategoryOther      = "Other"
)

// Record is one cost event.
type Record struct {
	entity.BaseRecord

	// Category is what the user declared. Never rewritten; COGS
	// grouping uses ReportingCategory instead.
	Category    string      `db:"category" json:"category"`
	Description string      `db:"description" json:"description,omitempty"`
	Amount      types.Money `db:"amount" json:"amount"`

	// Supply purchase tagging: when set, the purchase restocks the item.
	SupplyItemID      *id.ID         `db:"supply_item_id" json:"supplyItemId,omitempty"`
	QuantityPurchased types.Quantity `db:"quantity_purchased" json:"quantityPurchased,omitempty"`

	// Batch tagging for chick purchases and batch-direct costs.
	BatchID *id.ID `db:"batch_id" json:"batchId,omitempty"`
}

// New creates an expense record.
func New(ownerID id.ID, date time.Time, category string, amount types.Money) *Record {
	return &Record{
		BaseRecord: entity.NewBaseRecord(ownerID, date),
		Category:   category,
		Amount:     amount,
	}
}

// IsSupplyPurchase reports whether this expense restocks a supply item.
func (r *Record) IsSupplyPurchase() bool {
	return r.SupplyItemID != nil && !id.IsNil(*r.SupplyItemID)
}

// ReportingCategory derives the COGS grouping label: a purchase of a
// feed-like supply item reports under that item's name, everything else
// keeps the declared category. Display-only, never persisted over the
// declared value.
func (r *Record) ReportingCategory(linkedItemName string, linkedItemFeedLike bool) string {
	if r.IsSupplyPurchase() && linkedItemFeedLike && linkedItemName != "" {
		return linkedItemName
	}
	return r.Category
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if err := r.BaseRecord.Validate(ctx); err != nil {
		return err
	}
	if r.Category == "" {
		return apperror.NewValidation("category is required").
			WithDetail("field", "category")
	}
	if !r.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if r.IsSupplyPurchase() && !r.QuantityPurchased.IsPositive() {
		return apperror.NewValidation("purchased quantity must be positive for supply purchases").
			WithDetail("field", "quantityPurchased")
	}
	return nil
}
