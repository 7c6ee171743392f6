package dto

import (
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/supply"
)

// RecordResult returns a stored event record together with the batch
// and supply aggregates the reconciliation refreshed.
type RecordResult struct {
	Record   any          `json:"record"`
	Batch    *batch.Batch `json:"batch,omitempty"`
	Supply   *supply.Item `json:"supply,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// NewRecordResult builds a RecordResult from an engine result.
func NewRecordResult(rec any, res *reconcile.Result) RecordResult {
	return RecordResult{
		Record:   rec,
		Batch:    res.Batch,
		Supply:   res.Supply,
		Warnings: res.Warnings,
	}
}
