package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/records/weight"
	"broilerfarm/pkg/logger"
)

// refreshBatchWeight recomputes the batch's current weight from its
// latest remaining sample. Backdated inserts and edits are handled the
// same way: whatever sample is latest-by-date (tie-broken by creation
// order) wins; no samples left resets the weight to zero.
func (e *Engine) refreshBatchWeight(ctx context.Context, b *batch.Batch, exclude ...id.ID) error {
	latest, err := e.weights.GetLatestForBatch(ctx, b.OwnerID, b.ID, exclude...)
	if err != nil {
		return fmt.Errorf("find latest weight sample: %w", err)
	}
	if latest == nil {
		b.RevertWeightSample(0)
		return nil
	}
	return b.ApplyWeightSample(latest.AverageWeightKg)
}

// CreateWeight records a weight sample and refreshes the batch's
// current weight if the sample is now the latest.
func (e *Engine) CreateWeight(ctx context.Context, rec *weight.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := e.batches.GetForUpdate(ctx, rec.OwnerID, rec.BatchID)
		if err != nil {
			return err
		}
		if err := b.CanRecord(); err != nil {
			return err
		}

		if err := e.weights.Create(ctx, rec); err != nil {
			return fmt.Errorf("create weight record: %w", err)
		}
		if err := e.refreshBatchWeight(ctx, b); err != nil {
			return err
		}
		if err := e.saveBatch(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		res.Batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "weight sample recorded",
		"record_id", rec.ID, "batch_id", rec.BatchID, "avg_weight_kg", rec.AverageWeightKg)
	return res, nil
}

// UpdateWeight edits a weight sample and refreshes current weight on
// every affected batch.
func (e *Engine) UpdateWeight(ctx context.Context, recID id.ID, rec *weight.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.weights.GetByID(ctx, rec.OwnerID, recID)
		if err != nil {
			return err
		}

		oldBatch, newBatch, err := e.lockBatches(ctx, rec.OwnerID, old.BatchID, rec.BatchID)
		if err != nil {
			return err
		}
		if oldBatch != newBatch {
			if err := newBatch.CanRecord(); err != nil {
				return err
			}
		}

		carryIdentity(&rec.BaseRecord, &old.BaseRecord)
		if err := e.weights.Update(ctx, rec); err != nil {
			return fmt.Errorf("update weight record: %w", err)
		}

		if err := e.refreshBatchWeight(ctx, newBatch); err != nil {
			return err
		}
		if err := e.saveBatch(ctx, newBatch); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if oldBatch != newBatch {
			if err := e.refreshBatchWeight(ctx, oldBatch); err != nil {
				return err
			}
			if err := e.saveBatch(ctx, oldBatch); err != nil {
				return fmt.Errorf("update previous batch: %w", err)
			}
			res.OldBatch = oldBatch
		}
		res.Batch = newBatch
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "weight record updated",
		"record_id", rec.ID, "batch_id", rec.BatchID, "avg_weight_kg", rec.AverageWeightKg)
	return res, nil
}

// DeleteWeight removes a sample. Deleting the current latest falls the
// batch back to the next-latest remaining sample, or zero when none
// remain. Missing batch does not block deletion.
func (e *Engine) DeleteWeight(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.weights.GetByID(ctx, ownerID, recID)
		if err != nil {
			return err
		}

		b, err := e.batches.GetForUpdate(ctx, ownerID, rec.BatchID)
		switch {
		case isNotFound(err):
			res.warn("batch no longer exists; record deleted without reversal")
		case err != nil:
			return err
		default:
			// Exclude the record being deleted; the delete below may
			// not be visible to the lookup yet.
			if err := e.refreshBatchWeight(ctx, b, rec.ID); err != nil {
				return err
			}
			if err := e.saveBatch(ctx, b); err != nil {
				return fmt.Errorf("update batch: %w", err)
			}
			res.Batch = b
		}

		if err := e.weights.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete weight record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "weight record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "weight record deleted", "record_id", recID)
	}
	return res, nil
}
