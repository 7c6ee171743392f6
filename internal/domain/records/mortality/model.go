// Package mortality provides the mortality event record.
package mortality

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
)

// Record is one mortality event: count birds died in a batch on a date.
type Record struct {
	entity.BaseRecord

	BatchID id.ID  `db:"batch_id" json:"batchId"`
	Count   int    `db:"count" json:"count"`
	Reason  string `db:"reason" json:"reason,omitempty"`
	Notes   string `db:"notes" json:"notes,omitempty"`
}

// New creates a mortality record.
func New(ownerID, batchID id.ID, date time.Time, count int) *Record {
	return &Record{
		BaseRecord: entity.NewBaseRecord(ownerID, date),
		BatchID:    batchID,
		Count:      count,
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
	if r.Count <= 0 {
		return apperror.NewValidation("mortality count must be positive").
			WithDetail("field", "count")
	}
	return nil
}
