// Package reconcile implements the reconciliation engine: the single
// transition surface through which every farm event (mortality, feed,
// weight, sales, expense, health) mutates batch aggregates and supply
// stock. Each operation runs as one transaction: read fresh state under
// row locks, re-validate, apply the pure transitions, write everything
// or nothing. Edits are revert-old-then-apply-new; deletes are
// revert-then-remove.
package reconcile

import (
	"bytes"
	"context"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/tx"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/domain/records/weight"
	"broilerfarm/internal/domain/supply"
)

// Engine orchestrates atomic application of one event's effect across
// the batch aggregate, supply stock and the event record itself.
type Engine struct {
	txManager   tx.Manager
	batches     batch.Repository
	supplies    supply.Repository
	mortality   mortality.Repository
	feeds       feed.Repository
	weights     weight.Repository
	sales       sales.Repository
	expenses    expense.Repository
	health      health.Repository
	supplyHooks *domain.HookRegistry[*supply.Item]
}

// NewEngine creates a reconciliation engine.
func NewEngine(
	txManager tx.Manager,
	batches batch.Repository,
	supplies supply.Repository,
	mortalityRepo mortality.Repository,
	feedRepo feed.Repository,
	weightRepo weight.Repository,
	salesRepo sales.Repository,
	expenseRepo expense.Repository,
	healthRepo health.Repository,
) *Engine {
	return &Engine{
		txManager:   txManager,
		batches:     batches,
		supplies:    supplies,
		mortality:   mortalityRepo,
		feeds:       feedRepo,
		weights:     weightRepo,
		sales:       salesRepo,
		expenses:    expenseRepo,
		health:      healthRepo,
		supplyHooks: domain.NewHookRegistry[*supply.Item](),
	}
}

// SupplyHooks returns the registry run after every supply stock write
// the engine performs. The low-stock alerter subscribes here; hooks
// run inside the operation's transaction, so whatever they enqueue
// commits or rolls back with the stock change.
func (e *Engine) SupplyHooks() *domain.HookRegistry[*supply.Item] {
	return e.supplyHooks
}

// Result carries the updated entity snapshots and any tolerated-failure
// warnings back to the caller.
type Result struct {
	Batch    *batch.Batch `json:"batch,omitempty"`
	OldBatch *batch.Batch `json:"oldBatch,omitempty"`
	Supply   *supply.Item `json:"supply,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// lockBatches reads both batches under row locks in deterministic ID
// order so concurrent cross-batch edits cannot deadlock. Returns the
// batches in argument order.
func (e *Engine) lockBatches(ctx context.Context, ownerID, firstID, secondID id.ID) (*batch.Batch, *batch.Batch, error) {
	if firstID == secondID {
		b, err := e.batches.GetForUpdate(ctx, ownerID, firstID)
		return b, b, err
	}

	lockFirst := bytes.Compare(firstID[:], secondID[:]) < 0
	var first, second *batch.Batch
	var err error
	if lockFirst {
		if first, err = e.batches.GetForUpdate(ctx, ownerID, firstID); err != nil {
			return nil, nil, err
		}
		second, err = e.batches.GetForUpdate(ctx, ownerID, secondID)
	} else {
		if second, err = e.batches.GetForUpdate(ctx, ownerID, secondID); err != nil {
			return nil, nil, err
		}
		first, err = e.batches.GetForUpdate(ctx, ownerID, firstID)
	}
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// lockSupplies mirrors lockBatches for supply items.
func (e *Engine) lockSupplies(ctx context.Context, ownerID, firstID, secondID id.ID) (*supply.Item, *supply.Item, error) {
	if firstID == secondID {
		item, err := e.supplies.GetForUpdate(ctx, ownerID, firstID)
		return item, item, err
	}

	lockFirst := bytes.Compare(firstID[:], secondID[:]) < 0
	var first, second *supply.Item
	var err error
	if lockFirst {
		if first, err = e.supplies.GetForUpdate(ctx, ownerID, firstID); err != nil {
			return nil, nil, err
		}
		second, err = e.supplies.GetForUpdate(ctx, ownerID, secondID)
	} else {
		if second, err = e.supplies.GetForUpdate(ctx, ownerID, secondID); err != nil {
			return nil, nil, err
		}
		first, err = e.supplies.GetForUpdate(ctx, ownerID, firstID)
	}
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// saveBatch checks the population invariant before persisting.
func (e *Engine) saveBatch(ctx context.Context, b *batch.Batch) error {
	if err := b.CheckInvariant(); err != nil {
		return err
	}
	return e.batches.Update(ctx, b)
}

// saveSupply persists a stock change and runs the supply hooks in the
// same transaction.
func (e *Engine) saveSupply(ctx context.Context, item *supply.Item) error {
	if err := e.supplies.Update(ctx, item); err != nil {
		return err
	}
	return e.supplyHooks.Run(ctx, domain.AfterUpdate, item)
}

// carryIdentity preserves the stored record's identity and creation
// audit when an edit replaces its content, then bumps the version.
func carryIdentity(dst, src *entity.BaseRecord) {
	dst.ID = src.ID
	dst.OwnerID = src.OwnerID
	dst.Version = src.Version
	dst.CreatedAt = src.CreatedAt
	dst.CreatedBy = src.CreatedBy
	dst.Touch()
}

// isNotFound reports the tolerated dangling-reference condition.
func isNotFound(err error) bool {
	return apperror.IsNotFound(err)
}

// BatchHasRecords reports whether any event records still reference the
// batch. Batch deletion retains such records as historical artifacts
// and surfaces a warning instead of cascading.
func (e *Engine) BatchHasRecords(ctx context.Context, ownerID, batchID id.ID) (bool, error) {
	counters := []func(context.Context, id.ID, id.ID) (int64, error){
		e.mortality.CountByBatch,
		e.feeds.CountByBatch,
		e.weights.CountByBatch,
		e.sales.CountByBatch,
		e.expenses.CountByBatch,
		e.health.CountByBatch,
	}
	for _, count := range counters {
		n, err := count(ctx, ownerID, batchID)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
