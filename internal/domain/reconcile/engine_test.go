package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/metrics"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/domain/records/weight"
	"broilerfarm/internal/domain/supply"
)

var testDate = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

func seedBatch(t *testing.T, env *testEnv, ownerID id.ID) *batch.Batch {
	t.Helper()
	b := batch.New(ownerID, "Week 32 broilers")
	b.PurchaseDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	b.PurchasedChickCount = 500
	b.FreeChickCount = 10
	b.ChickPrice = types.MustMoney("0.50")
	b.ProposedSellingPrice = types.MustMoney("6.00")
	b.EstimatedFeedCost = types.MustMoney("300")
	b.Initialize()
	require.NoError(t, env.batches.Create(t.Context(), b))
	return b
}

func seedSupply(t *testing.T, env *testEnv, ownerID id.ID, stockKg float64) *supply.Item {
	t.Helper()
	item := supply.New(ownerID, "Starter feed", "kg", supply.CategoryFeed)
	item.CurrentStock = types.NewQuantityFromFloat64(stockKg)
	require.NoError(t, env.supplies.Create(t.Context(), item))
	return item
}

func storedBatch(t *testing.T, env *testEnv, ownerID, batchID id.ID) *batch.Batch {
	t.Helper()
	b, err := env.batches.GetByID(t.Context(), ownerID, batchID)
	require.NoError(t, err)
	return b
}

func TestCreateMortality(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := mortality.New(owner, b.ID, testDate, 10)
	res, err := env.engine.CreateMortality(t.Context(), rec)
	require.NoError(t, err)

	assert.Equal(t, 500, res.Batch.CurrentCount)
	assert.Equal(t, 10, res.Batch.TotalMortality)

	stored := storedBatch(t, env, owner, b.ID)
	assert.Equal(t, 500, stored.CurrentCount)
	assert.True(t, stored.CurrentMortalityRate.Equal(types.MustMoney("1.96")))
	require.NoError(t, stored.CheckInvariant())

	_, err = env.mortality.GetByID(t.Context(), owner, rec.ID)
	require.NoError(t, err)
}

func TestCreateMortalityInsufficientLeavesNoTrace(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := mortality.New(owner, b.ID, testDate, 511)
	_, err := env.engine.CreateMortality(t.Context(), rec)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientPopulation, appErr.Code)

	// Neither the batch nor the record was persisted
	stored := storedBatch(t, env, owner, b.ID)
	assert.Equal(t, 510, stored.CurrentCount)
	_, err = env.mortality.GetByID(t.Context(), owner, rec.ID)
	require.Error(t, err)
}

func TestCreateMortalityAgainstClosedBatch(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	b.Close()
	require.NoError(t, env.batches.Update(t.Context(), b))

	_, err := env.engine.CreateMortality(t.Context(), mortality.New(owner, b.ID, testDate, 5))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBatchClosed, appErr.Code)
}

func TestDeleteMortalityReverts(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := mortality.New(owner, b.ID, testDate, 10)
	_, err := env.engine.CreateMortality(t.Context(), rec)
	require.NoError(t, err)

	res, err := env.engine.DeleteMortality(t.Context(), owner, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	stored := storedBatch(t, env, owner, b.ID)
	assert.Equal(t, 510, stored.CurrentCount)
	assert.Equal(t, 0, stored.TotalMortality)
	assert.True(t, stored.CurrentMortalityRate.IsZero())
}

func TestDeleteMortalityMissingBatchToleratesWithWarning(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := mortality.New(owner, b.ID, testDate, 10)
	_, err := env.engine.CreateMortality(t.Context(), rec)
	require.NoError(t, err)

	require.NoError(t, env.batches.Delete(t.Context(), owner, b.ID))

	res, err := env.engine.DeleteMortality(t.Context(), owner, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)

	_, err = env.mortality.GetByID(t.Context(), owner, rec.ID)
	require.Error(t, err)
}

func TestUpdateMortalitySameBatch(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := mortality.New(owner, b.ID, testDate, 10)
	_, err := env.engine.CreateMortality(t.Context(), rec)
	require.NoError(t, err)

	edited := mortality.New(owner, b.ID, testDate, 25)
	res, err := env.engine.UpdateMortality(t.Context(), rec.ID, edited)
	require.NoError(t, err)

	assert.Equal(t, 485, res.Batch.CurrentCount)
	assert.Equal(t, 25, res.Batch.TotalMortality)
	assert.Equal(t, rec.ID, edited.ID)
	assert.Equal(t, 2, edited.Version)
	require.NoError(t, res.Batch.CheckInvariant())
}

func TestUpdateMortalityMovesBetweenBatches(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	first := seedBatch(t, env, owner)
	second := seedBatch(t, env, owner)

	rec := mortality.New(owner, first.ID, testDate, 10)
	_, err := env.engine.CreateMortality(t.Context(), rec)
	require.NoError(t, err)

	edited := mortality.New(owner, second.ID, testDate, 10)
	res, err := env.engine.UpdateMortality(t.Context(), rec.ID, edited)
	require.NoError(t, err)

	require.NotNil(t, res.OldBatch)
	assert.Equal(t, 510, res.OldBatch.CurrentCount)
	assert.Equal(t, 500, res.Batch.CurrentCount)
	require.NoError(t, res.OldBatch.CheckInvariant())
	require.NoError(t, res.Batch.CheckInvariant())
}

func TestEditEqualsDeleteThenCreate(t *testing.T) {
	// The resulting aggregate state of an edit must equal deleting the
	// record and recreating it with the new values.
	run := func(t *testing.T, viaEdit bool) *batch.Batch {
		env := newTestEnv()
		owner := id.New()
		b := seedBatch(t, env, owner)

		rec := mortality.New(owner, b.ID, testDate, 10)
		_, err := env.engine.CreateMortality(t.Context(), rec)
		require.NoError(t, err)

		if viaEdit {
			_, err = env.engine.UpdateMortality(t.Context(), rec.ID, mortality.New(owner, b.ID, testDate, 30))
			require.NoError(t, err)
		} else {
			_, err = env.engine.DeleteMortality(t.Context(), owner, rec.ID)
			require.NoError(t, err)
			_, err = env.engine.CreateMortality(t.Context(), mortality.New(owner, b.ID, testDate, 30))
			require.NoError(t, err)
		}
		return storedBatch(t, env, owner, b.ID)
	}

	edited := run(t, true)
	recreated := run(t, false)

	assert.Equal(t, recreated.CurrentCount, edited.CurrentCount)
	assert.Equal(t, recreated.TotalMortality, edited.TotalMortality)
	assert.True(t, edited.CurrentMortalityRate.Equal(recreated.CurrentMortalityRate))
	assert.True(t, edited.EstimatedSalesRevenue.Equal(recreated.EstimatedSalesRevenue))
}

func TestCreateFeed(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 100)

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25))
	res, err := env.engine.CreateFeed(t.Context(), rec)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(75), res.Supply.CurrentStock)
	assert.Equal(t, types.NewQuantityFromFloat64(25), res.Batch.FeedConsumed)
}

func TestCreateFeedInsufficientStockLeavesNoTrace(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 10)

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25))
	_, err := env.engine.CreateFeed(t.Context(), rec)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	storedItem, err := env.supplies.GetByID(t.Context(), owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), storedItem.CurrentStock)
	assert.True(t, storedBatch(t, env, owner, b.ID).FeedConsumed.IsZero())
}

func TestUpdateFeedResizeSameItem(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 100)

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(80))
	_, err := env.engine.CreateFeed(t.Context(), rec)
	require.NoError(t, err)

	// Growing 80 -> 95 only works because the revert returns the 80
	// before the 95 is consumed.
	edited := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(95))
	res, err := env.engine.UpdateFeed(t.Context(), rec.ID, edited)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(5), res.Supply.CurrentStock)
	assert.Equal(t, types.NewQuantityFromFloat64(95), res.Batch.FeedConsumed)
}

func TestUpdateFeedMovesBetweenItems(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	starter := seedSupply(t, env, owner, 100)
	finisher := seedSupply(t, env, owner, 50)

	rec := feed.New(owner, b.ID, starter.ID, testDate, types.NewQuantityFromFloat64(30))
	_, err := env.engine.CreateFeed(t.Context(), rec)
	require.NoError(t, err)

	edited := feed.New(owner, b.ID, finisher.ID, testDate, types.NewQuantityFromFloat64(30))
	_, err = env.engine.UpdateFeed(t.Context(), rec.ID, edited)
	require.NoError(t, err)

	starterStored, err := env.supplies.GetByID(t.Context(), owner, starter.ID)
	require.NoError(t, err)
	finisherStored, err := env.supplies.GetByID(t.Context(), owner, finisher.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(100), starterStored.CurrentStock)
	assert.Equal(t, types.NewQuantityFromFloat64(20), finisherStored.CurrentStock)
	assert.Equal(t, types.NewQuantityFromFloat64(30), storedBatch(t, env, owner, b.ID).FeedConsumed)
}

func TestDeleteFeedRestoresStock(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 100)

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25))
	_, err := env.engine.CreateFeed(t.Context(), rec)
	require.NoError(t, err)

	res, err := env.engine.DeleteFeed(t.Context(), owner, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, types.NewQuantityFromFloat64(100), res.Supply.CurrentStock)
	assert.True(t, res.Batch.FeedConsumed.IsZero())
}

func TestWeightLatestWins(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 100)

	_, err := env.engine.CreateFeed(t.Context(),
		feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25)))
	require.NoError(t, err)

	early := weight.New(owner, b.ID, testDate.AddDate(0, 0, -7), types.NewQuantityFromFloat64(1.2))
	_, err = env.engine.CreateWeight(t.Context(), early)
	require.NoError(t, err)

	latest := weight.New(owner, b.ID, testDate, types.NewQuantityFromFloat64(2.5))
	res, err := env.engine.CreateWeight(t.Context(), latest)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(2.5), res.Batch.CurrentWeight)
	assert.True(t, res.Batch.FeedConversionRatio.Equal(types.MustMoney("0.02")))

	// A backdated sample does not displace the latest one
	backdated := weight.New(owner, b.ID, testDate.AddDate(0, 0, -3), types.NewQuantityFromFloat64(1.8))
	res, err = env.engine.CreateWeight(t.Context(), backdated)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(2.5), res.Batch.CurrentWeight)
}

func TestDeleteLatestWeightFallsBack(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	early := weight.New(owner, b.ID, testDate.AddDate(0, 0, -7), types.NewQuantityFromFloat64(1.2))
	_, err := env.engine.CreateWeight(t.Context(), early)
	require.NoError(t, err)
	latest := weight.New(owner, b.ID, testDate, types.NewQuantityFromFloat64(2.5))
	_, err = env.engine.CreateWeight(t.Context(), latest)
	require.NoError(t, err)

	res, err := env.engine.DeleteWeight(t.Context(), owner, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(1.2), res.Batch.CurrentWeight)

	// Removing the last remaining sample resets the weight
	res, err = env.engine.DeleteWeight(t.Context(), owner, early.ID)
	require.NoError(t, err)
	assert.True(t, res.Batch.CurrentWeight.IsZero())
	assert.True(t, res.Batch.FeedConversionRatio.IsZero())
}

func TestCreditSaleLifecycle(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := sales.New(owner, b.ID, testDate, 50, types.MustMoney("6.00"), sales.SaleCredit, types.MustMoney("150"))
	res, err := env.engine.CreateSale(t.Context(), rec)
	require.NoError(t, err)

	assert.True(t, rec.TotalRevenue.Equal(types.MustMoney("300")))
	assert.True(t, rec.BalanceDue.Equal(types.MustMoney("150")))
	assert.Equal(t, metrics.PaymentPartiallyPaid, rec.PaymentStatus)
	assert.Equal(t, 460, res.Batch.CurrentCount)
	assert.Equal(t, 50, res.Batch.TotalBirdsSold)

	// Customer settles the balance: edit with full amount received
	settled := sales.New(owner, b.ID, testDate, 50, types.MustMoney("6.00"), sales.SaleCredit, types.MustMoney("300"))
	res, err = env.engine.UpdateSale(t.Context(), rec.ID, settled)
	require.NoError(t, err)

	assert.True(t, settled.BalanceDue.IsZero())
	assert.Equal(t, metrics.PaymentPaid, settled.PaymentStatus)
	// Population unchanged by a pure payment edit
	assert.Equal(t, 460, res.Batch.CurrentCount)
	require.NoError(t, res.Batch.CheckInvariant())
}

func TestUpdateSaleRevalidatesAgainstFreshCount(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := sales.New(owner, b.ID, testDate, 500, types.MustMoney("6.00"), sales.SaleCash, types.MustMoney("3000"))
	_, err := env.engine.CreateSale(t.Context(), rec)
	require.NoError(t, err)

	// 10 live birds remain, but editing the 500-bird sale up to 510
	// works because the 500 are returned before re-applying.
	edited := sales.New(owner, b.ID, testDate, 510, types.MustMoney("6.00"), sales.SaleCash, types.MustMoney("3060"))
	res, err := env.engine.UpdateSale(t.Context(), rec.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Batch.CurrentCount)

	// 511 exceeds even the returned quantity
	over := sales.New(owner, b.ID, testDate, 511, types.MustMoney("6.00"), sales.SaleCash, types.Zero())
	_, err = env.engine.UpdateSale(t.Context(), rec.ID, over)
	require.Error(t, err)
}

func TestDeleteSaleReverts(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	rec := sales.New(owner, b.ID, testDate, 50, types.MustMoney("6.00"), sales.SaleCash, types.MustMoney("300"))
	_, err := env.engine.CreateSale(t.Context(), rec)
	require.NoError(t, err)

	res, err := env.engine.DeleteSale(t.Context(), owner, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, 510, res.Batch.CurrentCount)
	assert.Equal(t, 0, res.Batch.TotalBirdsSold)
	assert.True(t, res.Batch.TotalSalesRevenue.IsZero())
	require.NoError(t, res.Batch.CheckInvariant())
}

func TestExpensePurchaseRestocks(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	item := seedSupply(t, env, owner, 10)

	rec := expense.New(owner, testDate, expense.CategoryFeed, types.MustMoney("125.00"))
	rec.SupplyItemID = &item.ID
	rec.QuantityPurchased = types.NewQuantityFromFloat64(50)

	res, err := env.engine.CreateExpense(t.Context(), rec)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(60), res.Supply.CurrentStock)
	assert.True(t, res.Supply.CostBasis.Equal(types.MustMoney("125.00")))
}

func TestDeleteExpenseClampWarning(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 0)

	rec := expense.New(owner, testDate, expense.CategoryFeed, types.MustMoney("125.00"))
	rec.SupplyItemID = &item.ID
	rec.QuantityPurchased = types.NewQuantityFromFloat64(50)
	_, err := env.engine.CreateExpense(t.Context(), rec)
	require.NoError(t, err)

	// Consume most of the purchased stock before reverting the purchase
	_, err = env.engine.CreateFeed(t.Context(),
		feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(45)))
	require.NoError(t, err)

	res, err := env.engine.DeleteExpense(t.Context(), owner, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
	assert.True(t, res.Supply.CurrentStock.IsZero())
}

func TestHealthEventConsumesSupply(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	vaccine := supply.New(owner, "Newcastle vaccine", "dose", supply.CategoryVaccine)
	vaccine.CurrentStock = types.NewQuantityFromFloat64(600)
	require.NoError(t, env.supplies.Create(t.Context(), vaccine))

	rec := health.New(owner, testDate, health.EventVaccination)
	rec.BatchID = &b.ID
	rec.SupplyItemID = &vaccine.ID
	rec.QuantityUsed = types.NewQuantityFromFloat64(510)

	res, err := env.engine.CreateHealth(t.Context(), rec)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(90), res.Supply.CurrentStock)

	delRes, err := env.engine.DeleteHealth(t.Context(), owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(600), delRes.Supply.CurrentStock)
}

func TestBatchHasRecords(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)

	has, err := env.engine.BatchHasRecords(t.Context(), owner, b.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = env.engine.CreateMortality(t.Context(), mortality.New(owner, b.ID, testDate, 1))
	require.NoError(t, err)

	has, err = env.engine.BatchHasRecords(t.Context(), owner, b.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

type txMarker struct{}

// markingTxManager tags the callback context so tests can tell hook
// code ran inside the transaction.
type markingTxManager struct{}

func (markingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func TestCreateFeedRunsSupplyHooksInTransaction(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 60)
	item.BufferStock = types.NewQuantityFromFloat64(50)
	require.NoError(t, env.supplies.Update(t.Context(), item))

	engine := NewEngine(
		markingTxManager{},
		env.batches,
		env.supplies,
		env.mortality,
		env.feeds,
		env.weights,
		env.sales,
		env.expenses,
		env.health,
	)

	var seen []*supply.Item
	var inTx bool
	engine.SupplyHooks().On(domain.AfterUpdate, func(ctx context.Context, it *supply.Item) error {
		seen = append(seen, it)
		inTx, _ = ctx.Value(txMarker{}).(bool)
		return nil
	})

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25))
	_, err := engine.CreateFeed(t.Context(), rec)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.True(t, inTx, "hook must see the transaction context")
	assert.Equal(t, types.NewQuantityFromFloat64(35), seen[0].CurrentStock)
	assert.True(t, seen[0].IsLowStock())
}

func TestCreateFeedSupplyHookErrorAborts(t *testing.T) {
	env := newTestEnv()
	owner := id.New()
	b := seedBatch(t, env, owner)
	item := seedSupply(t, env, owner, 100)

	hookErr := errors.New("outbox unavailable")
	env.engine.SupplyHooks().On(domain.AfterUpdate, func(ctx context.Context, it *supply.Item) error {
		return hookErr
	})

	rec := feed.New(owner, b.ID, item.ID, testDate, types.NewQuantityFromFloat64(25))
	_, err := env.engine.CreateFeed(t.Context(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.Empty(t, env.feeds.items)
}
