package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

func newTestBatch(t *testing.T) *Batch {
	t.Helper()
	b := New(id.New(), "Week 32 broilers")
	b.PurchaseDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	b.PurchasedChickCount = 500
	b.FreeChickCount = 10
	b.ChickPrice = types.MustMoney("0.50")
	b.ProposedSellingPrice = types.MustMoney("6.00")
	b.EstimatedFeedCost = types.MustMoney("300")
	b.Initialize()
	return b
}

func assertMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, got.Equal(types.MustMoney(want)), "want %s, got %s", want, got.String())
}

func TestInitializeComputesEstimate(t *testing.T) {
	b := newTestBatch(t)

	assert.Equal(t, 510, b.InitialTotal)
	assert.Equal(t, 510, b.CurrentCount)
	assertMoney(t, "2907.00", b.EstimatedSalesRevenue)
	assertMoney(t, "2357.00", b.EstimatedProfitLoss)
	require.NoError(t, b.CheckInvariant())
}

func TestApplyMortality(t *testing.T) {
	b := newTestBatch(t)

	require.NoError(t, b.ApplyMortality(10))

	assert.Equal(t, 500, b.CurrentCount)
	assert.Equal(t, 10, b.TotalMortality)
	assertMoney(t, "1.96", b.CurrentMortalityRate)
	// Projection follows the shrinking population
	assertMoney(t, "2850.00", b.EstimatedSalesRevenue)
	require.NoError(t, b.CheckInvariant())
}

func TestApplyMortalityInsufficientPopulation(t *testing.T) {
	b := newTestBatch(t)

	err := b.ApplyMortality(511)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientPopulation, appErr.Code)

	// Failed transition leaves state unchanged
	assert.Equal(t, 510, b.CurrentCount)
	assert.Equal(t, 0, b.TotalMortality)
}

func TestMortalityBoundaryDrainsToZero(t *testing.T) {
	b := newTestBatch(t)

	require.NoError(t, b.ApplyMortality(510))
	assert.Equal(t, 0, b.CurrentCount)
	require.NoError(t, b.CheckInvariant())

	err := b.ApplyMortality(1)
	require.Error(t, err)
}

func TestMortalityRoundTrip(t *testing.T) {
	b := newTestBatch(t)
	before := *b

	require.NoError(t, b.ApplyMortality(25))
	require.NoError(t, b.RevertMortality(25))

	assert.Equal(t, before.CurrentCount, b.CurrentCount)
	assert.Equal(t, before.TotalMortality, b.TotalMortality)
	assertMoney(t, before.CurrentMortalityRate.String(), b.CurrentMortalityRate)
	assertMoney(t, before.EstimatedSalesRevenue.String(), b.EstimatedSalesRevenue)
	assertMoney(t, before.EstimatedProfitLoss.String(), b.EstimatedProfitLoss)
}

func TestRevertMortalityOverflow(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.ApplyMortality(5))

	err := b.RevertMortality(6)
	require.Error(t, err)
}

func TestApplySale(t *testing.T) {
	b := newTestBatch(t)

	revenue := types.MustMoney("300.00")
	estimatedPL := b.EstimatedProfitLoss

	require.NoError(t, b.ApplySale(50, revenue, types.NewQuantityFromFloat64(110)))

	assert.Equal(t, 460, b.CurrentCount)
	assert.Equal(t, 50, b.TotalBirdsSold)
	assertMoney(t, "300.00", b.TotalSalesRevenue)
	// Estimate is a frozen budget figure, sales never move it
	assertMoney(t, estimatedPL.String(), b.EstimatedProfitLoss)
	require.NoError(t, b.CheckInvariant())
}

func TestApplySaleInsufficientPopulation(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.ApplyMortality(10))

	err := b.ApplySale(501, types.MustMoney("3006.00"), 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientPopulation, appErr.Code)
	assert.Equal(t, 500, b.CurrentCount)
}

func TestSaleRoundTrip(t *testing.T) {
	b := newTestBatch(t)
	before := *b

	revenue := types.MustMoney("300.00")
	weight := types.NewQuantityFromFloat64(95.5)
	require.NoError(t, b.ApplySale(50, revenue, weight))
	require.NoError(t, b.RevertSale(50, revenue, weight))

	assert.Equal(t, before.CurrentCount, b.CurrentCount)
	assert.Equal(t, before.TotalBirdsSold, b.TotalBirdsSold)
	assertMoney(t, before.TotalSalesRevenue.String(), b.TotalSalesRevenue)
	assert.Equal(t, before.TotalWeightSold, b.TotalWeightSold)
	require.NoError(t, b.CheckInvariant())
}

func TestFeedAndWeight(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.ApplyMortality(10))

	require.NoError(t, b.ApplyFeed(types.NewQuantityFromFloat64(25)))
	assert.Equal(t, types.NewQuantityFromFloat64(25), b.FeedConsumed)
	// No weight sample yet
	assert.True(t, b.FeedConversionRatio.IsZero())

	require.NoError(t, b.ApplyWeightSample(types.NewQuantityFromFloat64(2.5)))
	assertMoney(t, "0.02", b.FeedConversionRatio)
}

func TestFeedRoundTrip(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.ApplyWeightSample(types.NewQuantityFromFloat64(1.8)))

	before := *b
	kg := types.NewQuantityFromFloat64(40.25)
	require.NoError(t, b.ApplyFeed(kg))
	require.NoError(t, b.RevertFeed(kg))

	assert.Equal(t, before.FeedConsumed, b.FeedConsumed)
	assertMoney(t, before.FeedConversionRatio.String(), b.FeedConversionRatio)
}

func TestRevertWeightSampleFallback(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.ApplyFeed(types.NewQuantityFromFloat64(25)))
	require.NoError(t, b.ApplyWeightSample(types.NewQuantityFromFloat64(2.5)))

	// Deleting the latest sample falls back to the previous one
	b.RevertWeightSample(types.NewQuantityFromFloat64(1.9))
	assert.Equal(t, types.NewQuantityFromFloat64(1.9), b.CurrentWeight)

	// No samples left resets weight and FCR
	b.RevertWeightSample(0)
	assert.True(t, b.CurrentWeight.IsZero())
	assert.True(t, b.FeedConversionRatio.IsZero())
}

func TestPartitionInvariantAcrossSequence(t *testing.T) {
	b := newTestBatch(t)

	require.NoError(t, b.ApplyMortality(10))
	require.NoError(t, b.ApplySale(50, types.MustMoney("300.00"), 0))
	require.NoError(t, b.ApplyMortality(3))
	require.NoError(t, b.RevertSale(50, types.MustMoney("300.00"), 0))
	require.NoError(t, b.ApplySale(200, types.MustMoney("1200.00"), 0))

	assert.Equal(t, b.InitialTotal, b.CurrentCount+b.TotalMortality+b.TotalBirdsSold)
	require.NoError(t, b.CheckInvariant())
}

func TestValidate(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.Validate(t.Context()))

	b.Name = ""
	require.Error(t, b.Validate(t.Context()))

	b = newTestBatch(t)
	b.ProposedSellingPrice = types.MustMoney("-1")
	require.Error(t, b.Validate(t.Context()))

	b = newTestBatch(t)
	b.PurchasedChickCount = 0
	b.FreeChickCount = 0
	require.Error(t, b.Validate(t.Context()))
}

func TestCanRecord(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.CanRecord())

	b.Close()
	err := b.CanRecord()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBatchClosed, appErr.Code)

	b.Reopen()
	require.NoError(t, b.CanRecord())
}
