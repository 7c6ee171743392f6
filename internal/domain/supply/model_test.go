package supply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

func newTestItem(t *testing.T) *Item {
	t.Helper()
	item := New(id.New(), "Starter feed", "kg", CategoryFeed)
	item.CurrentStock = types.NewQuantityFromFloat64(100)
	item.BufferStock = types.NewQuantityFromFloat64(20)
	return item
}

func TestConsume(t *testing.T) {
	item := newTestItem(t)

	require.NoError(t, item.Consume(types.NewQuantityFromFloat64(25)))
	assert.Equal(t, types.NewQuantityFromFloat64(75), item.CurrentStock)
}

func TestConsumeInsufficientStock(t *testing.T) {
	item := newTestItem(t)

	err := item.Consume(types.NewQuantityFromFloat64(100.5))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, types.NewQuantityFromFloat64(100), item.CurrentStock)
}

func TestConsumeBoundaryDrainsToZero(t *testing.T) {
	item := newTestItem(t)

	require.NoError(t, item.Consume(types.NewQuantityFromFloat64(100)))
	assert.True(t, item.CurrentStock.IsZero())

	require.Error(t, item.Consume(types.NewQuantityFromFloat64(0.0001)))
}

func TestConsumeRoundTrip(t *testing.T) {
	item := newTestItem(t)
	before := item.CurrentStock

	qty := types.NewQuantityFromFloat64(33.5)
	require.NoError(t, item.Consume(qty))
	item.RevertConsumption(qty)

	assert.Equal(t, before, item.CurrentStock)
}

func TestRestock(t *testing.T) {
	item := newTestItem(t)

	require.NoError(t, item.Restock(types.NewQuantityFromFloat64(50), types.MustMoney("125.00")))
	assert.Equal(t, types.NewQuantityFromFloat64(150), item.CurrentStock)
	assert.True(t, item.CostBasis.Equal(types.MustMoney("125.00")))
}

func TestRevertRestockClampsAtZero(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.Restock(types.NewQuantityFromFloat64(50), types.MustMoney("125.00")))

	// Stock consumed since purchase: reverting the full purchase would
	// go negative, so the balance clamps at zero instead.
	require.NoError(t, item.Consume(types.NewQuantityFromFloat64(120)))
	clamped := item.RevertRestock(types.NewQuantityFromFloat64(50), types.MustMoney("125.00"))

	assert.True(t, clamped)
	assert.True(t, item.CurrentStock.IsZero())
}

func TestRevertRestockExact(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.Restock(types.NewQuantityFromFloat64(50), types.MustMoney("125.00")))

	clamped := item.RevertRestock(types.NewQuantityFromFloat64(50), types.MustMoney("125.00"))
	assert.False(t, clamped)
	assert.Equal(t, types.NewQuantityFromFloat64(100), item.CurrentStock)
	assert.True(t, item.CostBasis.IsZero())
}

func TestIsLowStock(t *testing.T) {
	item := newTestItem(t)
	assert.False(t, item.IsLowStock())

	require.NoError(t, item.Consume(types.NewQuantityFromFloat64(80)))
	assert.True(t, item.IsLowStock())

	// Zero buffer disables the signal
	item.BufferStock = 0
	assert.False(t, item.IsLowStock())
}

func TestIsFeedLike(t *testing.T) {
	assert.True(t, New(id.New(), "Grower feed", "kg", CategoryFeed).IsFeedLike())
	assert.False(t, New(id.New(), "Amoxicillin", "g", CategoryMedication).IsFeedLike())
}
