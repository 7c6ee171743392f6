// Package feed provides the feed-consumption event record.
package feed

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// Record is one feed event: quantity of a supply item fed to a batch.
type Record struct {
	entity.BaseRecord

	BatchID      id.ID          `db:"batch_id" json:"batchId"`
	SupplyItemID id.ID          `db:"supply_item_id" json:"supplyItemId"`
	QuantityKg   types.Quantity `db:"quantity_kg" json:"quantityKg"`
	Notes        string         `db:"notes" json:"notes,omitempty"`
}

// New creates a feed record.
func New(ownerID, batchID, supplyItemID id.ID, date time.Time, quantityKg types.Quantity) *Record {
	return &Record{
		BaseRecord:   entity.NewBaseRecord(ownerID, date),
		BatchID:      batchID,
		SupplyItemID: supplyItemID,
		QuantityKg:   quantityKg,
	}
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if err := r.BaseRecord.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(r.BatchID) {
		return apperror.NewValidation("batch is required").
			WithDetail("field", "batchId")
	}
	if id.IsNil(r.SupplyItemID) {
		return apperror.NewValidation("supply item is required").
			WithDetail("field", "supplyItemId")
	}
	if !r.QuantityKg.IsPositive() {
		return apperror.NewValidation("feed quantity must be positive").
			WithDetail("field", "quantityKg")
	}
	return nil
}
