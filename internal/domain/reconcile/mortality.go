package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/pkg/logger"
)

// CreateMortality records a mortality event and decrements the batch's
// live population atomically.
func (e *Engine) CreateMortality(ctx context.Context, rec *mortality.Record) (*Result, error) {
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
		if err := b.ApplyMortality(rec.Count); err != nil {
			return err
		}
		if err := e.saveBatch(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if err := e.mortality.Create(ctx, rec); err != nil {
			return fmt.Errorf("create mortality record: %w", err)
		}
		res.Batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "mortality recorded",
		"record_id", rec.ID, "batch_id", rec.BatchID, "count", rec.Count)
	return res, nil
}

// UpdateMortality edits a mortality event: the old event's effect is
// reverted and the new one applied within one transaction, against both
// batches when the batch reference changed.
func (e *Engine) UpdateMortality(ctx context.Context, recID id.ID, rec *mortality.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.mortality.GetByID(ctx, rec.OwnerID, recID)
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

		if err := oldBatch.RevertMortality(old.Count); err != nil {
			return err
		}
		if err := newBatch.ApplyMortality(rec.Count); err != nil {
			return err
		}

		if err := e.saveBatch(ctx, newBatch); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if oldBatch != newBatch {
			if err := e.saveBatch(ctx, oldBatch); err != nil {
				return fmt.Errorf("update previous batch: %w", err)
			}
			res.OldBatch = oldBatch
		}

		carryIdentity(&rec.BaseRecord, &old.BaseRecord)
		if err := e.mortality.Update(ctx, rec); err != nil {
			return fmt.Errorf("update mortality record: %w", err)
		}
		res.Batch = newBatch
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "mortality record updated",
		"record_id", rec.ID, "batch_id", rec.BatchID, "count", rec.Count)
	return res, nil
}

// DeleteMortality reverts the event's effect and removes the record. A
// missing batch does not block deletion: the record is removed anyway
// and a warning surfaced, tolerating orphaned references.
func (e *Engine) DeleteMortality(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.mortality.GetByID(ctx, ownerID, recID)
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
			if err := b.RevertMortality(rec.Count); err != nil {
				return err
			}
			if err := e.saveBatch(ctx, b); err != nil {
				return fmt.Errorf("update batch: %w", err)
			}
			res.Batch = b
		}

		if err := e.mortality.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete mortality record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "mortality record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "mortality record deleted", "record_id", recID)
	}
	return res, nil
}
