package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/pkg/logger"
)

// CreateSale records a sale: removes sold birds from the batch and
// accumulates revenue, atomically with the record itself.
func (e *Engine) CreateSale(ctx context.Context, rec *sales.Record) (*Result, error) {
	rec.Recalculate()
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
		if err := b.ApplySale(rec.Quantity, rec.TotalRevenue, rec.TotalWeightKg); err != nil {
			return err
		}
		if err := e.saveBatch(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if err := e.sales.Create(ctx, rec); err != nil {
			return fmt.Errorf("create sales record: %w", err)
		}
		res.Batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"record_id", rec.ID, "batch_id", rec.BatchID,
		"quantity", rec.Quantity, "total_revenue", rec.TotalRevenue)
	return res, nil
}

// UpdateSale edits a sale. The old quantity is returned to its batch
// before the new quantity is validated, so shrinking or resizing a sale
// within the same batch never trips the population check spuriously.
func (e *Engine) UpdateSale(ctx context.Context, recID id.ID, rec *sales.Record) (*Result, error) {
	rec.Recalculate()
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.sales.GetByID(ctx, rec.OwnerID, recID)
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

		if err := oldBatch.RevertSale(old.Quantity, old.TotalRevenue, old.TotalWeightKg); err != nil {
			return err
		}
		if err := newBatch.ApplySale(rec.Quantity, rec.TotalRevenue, rec.TotalWeightKg); err != nil {
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
		if err := e.sales.Update(ctx, rec); err != nil {
			return fmt.Errorf("update sales record: %w", err)
		}
		res.Batch = newBatch
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sales record updated",
		"record_id", rec.ID, "batch_id", rec.BatchID,
		"quantity", rec.Quantity, "payment_status", rec.PaymentStatus)
	return res, nil
}

// DeleteSale reverts the sale's effect and removes the record. Missing
// batch does not block deletion.
func (e *Engine) DeleteSale(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.sales.GetByID(ctx, ownerID, recID)
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
			if err := b.RevertSale(rec.Quantity, rec.TotalRevenue, rec.TotalWeightKg); err != nil {
				return err
			}
			if err := e.saveBatch(ctx, b); err != nil {
				return fmt.Errorf("update batch: %w", err)
			}
			res.Batch = b
		}

		if err := e.sales.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete sales record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "sales record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "sales record deleted", "record_id", recID)
	}
	return res, nil
}
