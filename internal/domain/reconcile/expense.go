package reconcile

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/pkg/logger"
)

// CreateExpense records a cost event. A supply-purchase expense
// restocks the linked item and accumulates its cost basis in the same
// transaction. Batch-tagged expenses are reporting-only and do not
// mutate the batch aggregate.
func (e *Engine) CreateExpense(ctx context.Context, rec *expense.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if rec.IsSupplyPurchase() {
			item, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			if err := item.Restock(rec.QuantityPurchased, rec.Amount); err != nil {
				return err
			}
			if err := e.saveSupply(ctx, item); err != nil {
				return fmt.Errorf("update supply item: %w", err)
			}
			res.Supply = item
		}
		if err := e.expenses.Create(ctx, rec); err != nil {
			return fmt.Errorf("create expense record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "expense recorded",
		"record_id", rec.ID, "category", rec.Category, "amount", rec.Amount)
	return res, nil
}

// UpdateExpense edits a cost event, reversing the old purchase's stock
// effect and applying the new one, across items when the link changed.
func (e *Engine) UpdateExpense(ctx context.Context, recID id.ID, rec *expense.Record) (*Result, error) {
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := e.expenses.GetByID(ctx, rec.OwnerID, recID)
		if err != nil {
			return err
		}

		switch {
		case old.IsSupplyPurchase() && rec.IsSupplyPurchase():
			oldItem, newItem, err := e.lockSupplies(ctx, rec.OwnerID, *old.SupplyItemID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			if clamped := oldItem.RevertRestock(old.QuantityPurchased, old.Amount); clamped {
				res.warn("stock already consumed below the purchased quantity; balance clamped at zero")
			}
			if err := newItem.Restock(rec.QuantityPurchased, rec.Amount); err != nil {
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

		case old.IsSupplyPurchase():
			oldItem, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *old.SupplyItemID)
			if err != nil {
				return err
			}
			if clamped := oldItem.RevertRestock(old.QuantityPurchased, old.Amount); clamped {
				res.warn("stock already consumed below the purchased quantity; balance clamped at zero")
			}
			if err := e.saveSupply(ctx, oldItem); err != nil {
				return fmt.Errorf("update previous supply item: %w", err)
			}

		case rec.IsSupplyPurchase():
			newItem, err := e.supplies.GetForUpdate(ctx, rec.OwnerID, *rec.SupplyItemID)
			if err != nil {
				return err
			}
			if err := newItem.Restock(rec.QuantityPurchased, rec.Amount); err != nil {
				return err
			}
			if err := e.saveSupply(ctx, newItem); err != nil {
				return fmt.Errorf("update supply item: %w", err)
			}
			res.Supply = newItem
		}

		carryIdentity(&rec.BaseRecord, &old.BaseRecord)
		if err := e.expenses.Update(ctx, rec); err != nil {
			return fmt.Errorf("update expense record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "expense record updated",
		"record_id", rec.ID, "category", rec.Category, "amount", rec.Amount)
	return res, nil
}

// DeleteExpense reverts a purchase's stock effect and removes the
// record. Missing supply item does not block deletion.
func (e *Engine) DeleteExpense(ctx context.Context, ownerID, recID id.ID) (*Result, error) {
	res := &Result{}
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := e.expenses.GetByID(ctx, ownerID, recID)
		if err != nil {
			return err
		}

		if rec.IsSupplyPurchase() {
			item, err := e.supplies.GetForUpdate(ctx, ownerID, *rec.SupplyItemID)
			switch {
			case isNotFound(err):
				res.warn("supply item no longer exists; stock not adjusted")
			case err != nil:
				return err
			default:
				if clamped := item.RevertRestock(rec.QuantityPurchased, rec.Amount); clamped {
					res.warn("stock already consumed below the purchased quantity; balance clamped at zero")
				}
				if err := e.saveSupply(ctx, item); err != nil {
					return fmt.Errorf("update supply item: %w", err)
				}
				res.Supply = item
			}
		}

		if err := e.expenses.Delete(ctx, ownerID, recID); err != nil {
			return fmt.Errorf("delete expense record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Warnings) > 0 {
		logger.Warn(ctx, "expense record deleted with warnings",
			"record_id", recID, "warnings", res.Warnings)
	} else {
		logger.Info(ctx, "expense record deleted", "record_id", recID)
	}
	return res, nil
}
