package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/pkg/logger"
)

// CreateFeed records a feed event: withdraws the quantity from the
// supply item's stock and accumulates it on the batch, atomically.
func (e *Engine) CreateFeed(ctx context.Context, rec *feed.Record) (*Result, error) {
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

		item, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, rec.SupplyItemID)
		if err != nil {
			return err
		}
		if err := item.Consume(rec.QuantityKg); err != nil {
			return err
		}
		if err := b.ApplyFeed(rec.QuantityKg); err != nil {
			return err
		}

		if err := e.saveSupply(ctx, item); err != nil {
			return fmt.Errorf("update supply item: %w", err)
		}
		if err := e.saveBatch(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if err := e.feeds.Create(ctx, rec); err != nil {
			return fmt.Errorf("create feed record: %w", err)
		}
		res.Batch = b
		res.Supply = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "feed recorded",
		"record_id", rec.ID, "batch_id", rec.BatchID,
		"supply_item_id", rec.SupplyItemID, "quantity_kg", rec.QuantityKg)
	return res, nil
}

// UpdateFeed edits a feed event, symmetrically adjusting the
// originating and destination supply items and batches.
func (e *Engine) UpdateFeed(ctx context.Context, recID id.ID, rec *feed.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.feeds.GetByID(ctx, rec.OwnerID, recID)
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

		oldItem, newItem, err := e.lockSupplies(ctx, rec.OwnerID, old.SupplyItemID, rec.SupplyItemID)
		if err != nil {
			return err
		}

		// Revert the old event, then apply the new one. Returning stock
		// first lets a same-item edit reuse the returned quantity.
		oldItem.RevertConsumption(old.QuantityKg)
		if err := oldBatch.RevertFeed(old.QuantityKg); err != nil {
			return err
		}
		if err := newItem.Consume(rec.QuantityKg); err != nil {
			return err
		}
		if err := newBatch.ApplyFeed(rec.QuantityKg); err != nil {
			return err
		}

		if err := e.saveSupply(ctx, newItem); err != nil {
			return fmt.Errorf("update supply item: %w", err)
		}
		if oldItem != newItem {
			if err := e.saveSupply(ctx, oldItem); err != nil {
				return fmt.Errorf("update previous supply item: %w", err)
			}
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
		if err := e.feeds.Update(ctx, rec); err != nil {
			return fmt.Errorf("update feed record: %w", err)
		}
		res.Batch = newBatch
		res.Supply = newItem
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "feed record updated",
		"record_id", rec.ID, "batch_id", rec.BatchID, "quantity_kg", rec.QuantityKg)
	return res, nil
}

// DeleteFeed reverts the event's stock and batch effects and removes
// the record. Missing batch or supply item does not block deletion.
func (e *Engine) DeleteFeed(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.feeds.GetByID(ctx, ownerID, recID)
		if err != nil {
			return err
		}

		item, err := e.supplies.GetForUpdate(ctx, ownerID, rec.SupplyItemID)
		switch {
		case isNotFound(err):
			res.warn("supply item no longer exists; stock not restored")
		case err != nil:
			return err
		default:
			item.RevertConsumption(rec.QuantityKg)
			if err := e.saveSupply(ctx, item); err != nil {
				return fmt.Errorf("update supply item: %w", err)
			}
			res.Supply = item
		}

		b, err := e.batches.GetForUpdate(ctx, ownerID, rec.BatchID)
		switch {
		case isNotFound(err):
			res.warn("batch no longer exists; record deleted without reversal")
		case err != nil:
			return err
		default:
			if err := b.RevertFeed(rec.QuantityKg); err != nil {
				return err
			}
			if err := e.saveBatch(ctx, b); err != nil {
				return fmt.Errorf("update batch: %w", err)
			}
			res.Batch = b
		}

		if err := e.feeds.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete feed record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "feed record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "feed record deleted", "record_id", recID)
	}
	return res, nil
}
