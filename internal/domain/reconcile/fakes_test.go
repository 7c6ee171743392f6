package reconcile

import (
	"bytes"
	"context"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
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

// In-memory fakes. Reads return copies so that a failed operation
// cannot leak mutations into the stored state, mirroring how a rolled
// back transaction leaves the database untouched.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBatchRepo struct {
	items map[id.ID]batch.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{items: make(map[id.ID]batch.Batch)}
}

func (r *fakeBatchRepo) Create(ctx context.Context, b *batch.Batch) error {
	r.items[b.ID] = *b
	return nil
}

func (r *fakeBatchRepo) GetByID(ctx context.Context, ownerID, batchID id.ID) (*batch.Batch, error) {
	b, ok := r.items[batchID]
	if !ok || b.OwnerID != ownerID {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	cp := b
	return &cp, nil
}

func (r *fakeBatchRepo) Update(ctx context.Context, b *batch.Batch) error {
	if _, ok := r.items[b.ID]; !ok {
		return apperror.NewNotFound("batch", b.ID.String())
	}
	r.items[b.ID] = *b
	return nil
}

func (r *fakeBatchRepo) Delete(ctx context.Context, ownerID, batchID id.ID) error {
	delete(r.items, batchID)
	return nil
}

func (r *fakeBatchRepo) List(ctx context.Context, ownerID id.ID, filter batch.ListFilter) (domain.ListResult[*batch.Batch], error) {
	return domain.ListResult[*batch.Batch]{}, nil
}

func (r *fakeBatchRepo) GetForUpdate(ctx context.Context, ownerID, batchID id.ID) (*batch.Batch, error) {
	return r.GetByID(ctx, ownerID, batchID)
}

type fakeSupplyRepo struct {
	items map[id.ID]supply.Item
}

func newFakeSupplyRepo() *fakeSupplyRepo {
	return &fakeSupplyRepo{items: make(map[id.ID]supply.Item)}
}

func (r *fakeSupplyRepo) Create(ctx context.Context, item *supply.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *fakeSupplyRepo) GetByID(ctx context.Context, ownerID, itemID id.ID) (*supply.Item, error) {
	item, ok := r.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, apperror.NewNotFound("supply item", itemID.String())
	}
	cp := item
	return &cp, nil
}

func (r *fakeSupplyRepo) Update(ctx context.Context, item *supply.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFound("supply item", item.ID.String())
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeSupplyRepo) Delete(ctx context.Context, ownerID, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeSupplyRepo) List(ctx context.Context, ownerID id.ID, filter supply.ListFilter) (domain.ListResult[*supply.Item], error) {
	return domain.ListResult[*supply.Item]{}, nil
}

func (r *fakeSupplyRepo) ListLowStock(ctx context.Context, ownerID id.ID) ([]*supply.Item, error) {
	var out []*supply.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID && item.IsLowStock() {
			cp := item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSupplyRepo) GetForUpdate(ctx context.Context, ownerID, itemID id.ID) (*supply.Item, error) {
	return r.GetByID(ctx, ownerID, itemID)
}

type fakeMortalityRepo struct {
	items map[id.ID]mortality.Record
}

func newFakeMortalityRepo() *fakeMortalityRepo {
	return &fakeMortalityRepo{items: make(map[id.ID]mortality.Record)}
}

func (r *fakeMortalityRepo) Create(ctx context.Context, rec *mortality.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeMortalityRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*mortality.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("mortality record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeMortalityRepo) Update(ctx context.Context, rec *mortality.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeMortalityRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeMortalityRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*mortality.Record], error) {
	return domain.ListResult[*mortality.Record]{}, nil
}

func (r *fakeMortalityRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

type fakeFeedRepo struct {
	items map[id.ID]feed.Record
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{items: make(map[id.ID]feed.Record)}
}

func (r *fakeFeedRepo) Create(ctx context.Context, rec *feed.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeFeedRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*feed.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("feed record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeFeedRepo) Update(ctx context.Context, rec *feed.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeFeedRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeFeedRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*feed.Record], error) {
	return domain.ListResult[*feed.Record]{}, nil
}

func (r *fakeFeedRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

type fakeWeightRepo struct {
	items map[id.ID]weight.Record
}

func newFakeWeightRepo() *fakeWeightRepo {
	return &fakeWeightRepo{items: make(map[id.ID]weight.Record)}
}

func (r *fakeWeightRepo) Create(ctx context.Context, rec *weight.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeWeightRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*weight.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("weight record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeWeightRepo) Update(ctx context.Context, rec *weight.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeWeightRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeWeightRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*weight.Record], error) {
	return domain.ListResult[*weight.Record]{}, nil
}

func (r *fakeWeightRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

func (r *fakeWeightRepo) GetLatestForBatch(ctx context.Context, ownerID, batchID id.ID, exclude ...id.ID) (*weight.Record, error) {
	excluded := func(recID id.ID) bool {
		for _, ex := range exclude {
			if ex == recID {
				return true
			}
		}
		return false
	}

	var latest *weight.Record
	for _, rec := range r.items {
		if rec.OwnerID != ownerID || rec.BatchID != batchID || excluded(rec.ID) {
			continue
		}
		cp := rec
		if latest == nil {
			latest = &cp
			continue
		}
		if cp.Date.After(latest.Date) ||
			(cp.Date.Equal(latest.Date) && bytes.Compare(cp.ID[:], latest.ID[:]) > 0) {
			latest = &cp
		}
	}
	return latest, nil
}

type fakeSalesRepo struct {
	items map[id.ID]sales.Record
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{items: make(map[id.ID]sales.Record)}
}

func (r *fakeSalesRepo) Create(ctx context.Context, rec *sales.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeSalesRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*sales.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("sales record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeSalesRepo) Update(ctx context.Context, rec *sales.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeSalesRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeSalesRepo) List(ctx context.Context, ownerID id.ID, filter sales.ListFilter) (domain.ListResult[*sales.Record], error) {
	return domain.ListResult[*sales.Record]{}, nil
}

func (r *fakeSalesRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

type fakeExpenseRepo struct {
	items map[id.ID]expense.Record
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{items: make(map[id.ID]expense.Record)}
}

func (r *fakeExpenseRepo) Create(ctx context.Context, rec *expense.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*expense.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("expense record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, rec *expense.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeExpenseRepo) List(ctx context.Context, ownerID id.ID, filter expense.ListFilter) (domain.ListResult[*expense.Record], error) {
	return domain.ListResult[*expense.Record]{}, nil
}

func (r *fakeExpenseRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID != nil && *rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

type fakeHealthRepo struct {
	items map[id.ID]health.Record
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{items: make(map[id.ID]health.Record)}
}

func (r *fakeHealthRepo) Create(ctx context.Context, rec *health.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeHealthRepo) GetByID(ctx context.Context, ownerID, recID id.ID) (*health.Record, error) {
	rec, ok := r.items[recID]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("health record", recID.String())
	}
	cp := rec
	return &cp, nil
}

func (r *fakeHealthRepo) Update(ctx context.Context, rec *health.Record) error {
	r.items[rec.ID] = *rec
	return nil
}

func (r *fakeHealthRepo) Delete(ctx context.Context, ownerID, recID id.ID) error {
	delete(r.items, recID)
	return nil
}

func (r *fakeHealthRepo) List(ctx context.Context, ownerID id.ID, filter health.ListFilter) (domain.ListResult[*health.Record], error) {
	return domain.ListResult[*health.Record]{}, nil
}

func (r *fakeHealthRepo) CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.items {
		if rec.OwnerID == ownerID && rec.BatchID != nil && *rec.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

// testEnv bundles the engine with direct access to its fakes.
type testEnv struct {
	engine    *Engine
	batches   *fakeBatchRepo
	supplies  *fakeSupplyRepo
	mortality *fakeMortalityRepo
	feeds     *fakeFeedRepo
	weights   *fakeWeightRepo
	sales     *fakeSalesRepo
	expenses  *fakeExpenseRepo
	health    *fakeHealthRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		batches:   newFakeBatchRepo(),
		supplies:  newFakeSupplyRepo(),
		mortality: newFakeMortalityRepo(),
		feeds:     newFakeFeedRepo(),
		weights:   newFakeWeightRepo(),
		sales:     newFakeSalesRepo(),
		expenses:  newFakeExpenseRepo(),
		health:    newFakeHealthRepo(),
	}
	env.engine = NewEngine(
		&fakeTxManager{},
		env.batches,
		env.supplies,
		env.mortality,
		env.feeds,
		env.weights,
		env.sales,
		env.expenses,
		env.health,
	)
	return env
}
