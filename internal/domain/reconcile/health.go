package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/pkg/logger"
)

// CreateHealth records a health event, withdrawing any consumed
// medication or vaccine from supply stock. The batch reference is
// validated but the batch aggregate itself is not mutated.
func (e *Engine) CreateHealth(ctx context.Context, rec *health.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if rec.BatchID != nil && !id.IsNil(*rec.BatchID) {
			b, err := e.batches.GetByID(ctx, rec.OwnerID, *rec.BatchID)
			if err != nil {
				return err
			}
			if err := b.CanRecord(); err != nil {
				return err
			}
		}

		if rec.ConsumesSupply() {
			item, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			if err := item.Consume(rec.QuantityUsed); err != nil {
				return err
			}
			if err := e.saveSupply(ctx, item); err != nil {
				return fmt.Errorf("update supply item: %w", err)
			}
			res.Supply = item
		}

		if err := e.health.Create(ctx, rec); err != nil {
			return fmt.Errorf("create health record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "health event recorded",
		"record_id", rec.ID, "event_type", rec.EventType)
	return res, nil
}

// UpdateHealth edits a health event with the same revert/reapply
// discipline as feed records for any supply consumption.
func (e *Engine) UpdateHealth(ctx context.Context, recID id.ID, rec *health.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.health.GetByID(ctx, rec.OwnerID, recID)
		if err != nil {
			return err
		}

		if rec.BatchID != nil && !id.IsNil(*rec.BatchID) {
			b, err := e.batches.GetByID(ctx, rec.OwnerID, *rec.BatchID)
			if err != nil {
				return err
			}
			if err := b.CanRecord(); err != nil {
				return err
			}
		}

		switch {
		case old.ConsumesSupply() && rec.ConsumesSupply():
			oldItem, newItem, err := e.lockSupplies(ctx, rec.OwnerID, *old.SupplyItemID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			oldItem.RevertConsumption(old.QuantityUsed)
			if err := newItem.Consume(rec.QuantityUsed); err != nil {
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
			res.Supply = newItem

		case old.ConsumesSupply():
			oldItem, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *old.SupplyItemID)
			if err != nil {
				return err
			}
			oldItem.RevertConsumption(old.QuantityUsed)
			if err := e.saveSupply(ctx, oldItem); err != nil {
				return fmt.Errorf("update previous supply item: %w", err)
			}

		case rec.ConsumesSupply():
			newItem, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			if err := newItem.Consume(rec.QuantityUsed); err != nil {
				return err
			}
			if err := e.saveSupply(ctx, newItem); err != nil {
				return fmt.Errorf("update supply item: %w", err)
			}
			res.Supply = newItem
		}

		carryIdentity(&rec.BaseRecord, &old.BaseRecord)
		if err := e.health.Update(ctx, rec); err != nil {
			return fmt.Errorf("update health record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "health record updated",
		"record_id", rec.ID, "event_type", rec.EventType)
	return res, nil
}

// DeleteHealth reverts any supply consumption and removes the record.
// Missing supply item does not block deletion.
func (e *Engine) DeleteHealth(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.health.GetByID(ctx, ownerID, recID)
		if err != nil {
			return err
		}

		if rec.ConsumesSupply() {
			item, err := e.supplies.GetForUpdate(ctx, ownerID, *rec.SupplyItemID)
			switch {
			case isNotFound(err):
				res.warn("supply item no longer exists; stock not restored")
			case err != nil:
				return err
			default:
				item.RevertConsumption(rec.QuantityUsed)
				if err := e.saveSupply(ctx, item); err != nil {
					return fmt.Errorf("update supply item: %w", err)
				}
				res.Supply = item
			}
		}

		if err := e.health.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete health record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "health record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "health record deleted", "record_id", recID)
	}
	return res, nil
}
