package supply

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain"
)

type stubRepo struct {
	updated *Item
}

func (r *stubRepo) Create(ctx context.Context, item *Item) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, ownerID, itemID id.ID) (*Item, error) {
	return nil, nil
}

func (r *stubRepo) Update(ctx context.Context, item *Item) error {
	r.updated = item
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, ownerID, itemID id.ID) error { return nil }

func (r *stubRepo) List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Item], error) {
	return domain.ListResult[*Item]{}, nil
}

func (r *stubRepo) ListLowStock(ctx context.Context, ownerID id.ID) ([]*Item, error) {
	return nil, nil
}

func (r *stubRepo) GetForUpdate(ctx context.Context, ownerID, itemID id.ID) (*Item, error) {
	return nil, nil
}

type txMarker struct{}

// markingTxManager tags the callback context so tests can tell hook
// code ran inside the transaction.
type markingTxManager struct{}

func (markingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func lowStockItem(ownerID id.ID) *Item {
	item := New(ownerID, "Starter feed", "kg", CategoryFeed)
	item.CurrentStock = types.NewQuantityFromFloat64(10)
	item.BufferStock = types.NewQuantityFromFloat64(50)
	return item
}

func TestUpdateRunsHooksInTransaction(t *testing.T) {
	repo := &stubRepo{}
	service := NewService(repo, markingTxManager{})

	var hookCtx context.Context
	service.Hooks().On(domain.AfterUpdate, func(ctx context.Context, item *Item) error {
		hookCtx = ctx
		return nil
	})

	item := lowStockItem(id.New())
	require.NoError(t, service.Update(t.Context(), item))

	require.NotNil(t, hookCtx)
	inTx, _ := hookCtx.Value(txMarker{}).(bool)
	assert.True(t, inTx, "hook must see the transaction context")
	assert.Same(t, item, repo.updated)
}

func TestUpdateHookErrorFailsUpdate(t *testing.T) {
	service := NewService(&stubRepo{}, markingTxManager{})

	hookErr := errors.New("outbox unavailable")
	service.Hooks().On(domain.AfterUpdate, func(ctx context.Context, item *Item) error {
		return hookErr
	})

	err := service.Update(t.Context(), lowStockItem(id.New()))
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
}
