// Package weight provides the weight-sample event record. Only the
// latest sample by date determines a batch's current average weight.
package weight

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// Record is one average-weight sample for a batch.
type Record struct {
	entity.BaseRecord

	BatchID           id.ID          `db:"batch_id" json:"batchId"`
	AverageWeightKg   types.Quantity `db:"average_weight_kg" json:"averageWeightKg"`
	SampleSize        int            `db:"sample_size" json:"sampleSize,omitempty"`
	Notes             string         `db:"notes" json:"notes,omitempty"`
}

// New creates a weight record.
func New(ownerID, batchID id.ID, date time.Time, avgWeightKg types.Quantity) *Record {
	return &Record{
		BaseRecord:      entity.NewBaseRecord(ownerID, date),
		BatchID:         batchID,
		AverageWeightKg: avgWeightKg,
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
	if !r.AverageWeightKg.IsPositive() {
		return apperror.NewValidation("average weight must be positive").
			WithDetail("field", "averageWeightKg")
	}
	if r.SampleSize < 0 {
		return apperror.NewValidation("sample size must be non-negative").
			WithDetail("field", "sampleSize")
	}
	return nil
}
