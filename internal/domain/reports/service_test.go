package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

type stubRepo struct {
	sales     SalesTotals
	expenses  []ExpenseCategoryTotal
	financing FinancingTotals
	batches   []BatchAggregates
}

func (r *stubRepo) GetSalesTotals(ctx context.Context, ownerID id.ID, period Period) (SalesTotals, error) {
	return r.sales, nil
}

func (r *stubRepo) GetExpenseTotalsByLabel(ctx context.Context, ownerID id.ID, period Period) ([]ExpenseCategoryTotal, error) {
	return r.expenses, nil
}

func (r *stubRepo) GetFinancingTotals(ctx context.Context, ownerID id.ID, period Period) (FinancingTotals, error) {
	return r.financing, nil
}

func (r *stubRepo) GetBatchAggregates(ctx context.Context, ownerID id.ID) ([]BatchAggregates, error) {
	return r.batches, nil
}

func money(s string) types.Money { return types.MustMoney(s) }

func TestGetIncomeStatement(t *testing.T) {
	repo := &stubRepo{
		sales: SalesTotals{TotalRevenue: money("3000")},
		expenses: []ExpenseCategoryTotal{
			{Label: "Starter feed", Amount: money("800")},
			{Label: "Day-old chicks", Amount: money("250")},
			{Label: "Electricity", Amount: money("120")},
			{Label: "Labor", Amount: money("400")},
		},
	}
	svc := NewService(repo)

	stmt, err := svc.GetIncomeStatement(t.Context(), id.New(), Period{})
	require.NoError(t, err)

	assert.True(t, stmt.TotalCOGS.Equal(money("1050")), "got %s", stmt.TotalCOGS)
	assert.True(t, stmt.GrossProfit.Equal(money("1950")), "got %s", stmt.GrossProfit)
	assert.True(t, stmt.TotalOperatingExpenses.Equal(money("520")), "got %s", stmt.TotalOperatingExpenses)
	assert.True(t, stmt.OperatingIncome.Equal(money("1430")), "got %s", stmt.OperatingIncome)

	require.Len(t, stmt.CostOfGoodsSold, 2)
	assert.Equal(t, "Day-old chicks", stmt.CostOfGoodsSold[0].Category)
	require.Len(t, stmt.OperatingExpenses, 2)
	assert.Equal(t, "Electricity", stmt.OperatingExpenses[0].Category)
}

func TestGetIncomeStatementRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&stubRepo{})
	from := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetIncomeStatement(t.Context(), id.New(), Period{From: &from, To: &to})
	require.Error(t, err)
}

func TestGetCashFlowStatement(t *testing.T) {
	repo := &stubRepo{
		sales: SalesTotals{
			TotalRevenue:   money("3000"),
			AmountReceived: money("2400"),
			BalanceDue:     money("600"),
		},
		expenses: []ExpenseCategoryTotal{
			{Label: "Starter feed", Amount: money("800")},
			{Label: "Labor", Amount: money("400")},
		},
		financing: FinancingTotals{
			CapitalInjections: money("1000"),
			Withdrawals:       money("250"),
		},
	}
	svc := NewService(repo)

	stmt, err := svc.GetCashFlowStatement(t.Context(), id.New(), Period{})
	require.NoError(t, err)

	assert.True(t, stmt.NetCashOperating.Equal(money("1200")), "got %s", stmt.NetCashOperating)
	assert.True(t, stmt.NetCashFinancing.Equal(money("750")), "got %s", stmt.NetCashFinancing)
	assert.True(t, stmt.NetChangeInCash.Equal(money("1950")), "got %s", stmt.NetChangeInCash)
	assert.True(t, stmt.OutstandingCredit.Equal(money("600")), "got %s", stmt.OutstandingCredit)
}

func TestGetBatchPerformance(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)

	repo := &stubRepo{
		batches: []BatchAggregates{
			{
				BatchID:        id.New(),
				Name:           "July batch",
				Status:         "Closed",
				StartDate:      start,
				ClosedAt:       &closed,
				InitialTotal:   510,
				CurrentCount:   0,
				TotalMortality: 10,
				FeedConsumedKg: types.NewQuantityFromFloat64(2000),
				WeightSoldKg:   types.NewQuantityFromFloat64(1250),
				TotalRevenue:   money("2907"),
				ChickCost:      money("250"),
				FeedCost:       money("300"),
				OtherExpenses:  money("100"),
			},
			{
				BatchID:        id.New(),
				Name:           "August batch",
				Status:         "Active",
				StartDate:      closed,
				InitialTotal:   500,
				CurrentCount:   490,
				TotalMortality: 10,
				FeedConsumedKg: types.NewQuantityFromFloat64(25),
				CurrentWeight:  types.NewQuantityFromFloat64(2.5),
			},
		},
	}
	svc := NewService(repo)

	report, err := svc.GetBatchPerformance(t.Context(), id.New())
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	sold := report.Rows[0]
	assert.Equal(t, 42, sold.AgeDays)
	assert.True(t, sold.MortalityRate.Equal(money("1.96")), "got %s", sold.MortalityRate)
	// Closed batch: FCR against total weight sold, 2000/1250
	assert.True(t, sold.FeedConversionRatio.Equal(money("1.60")), "got %s", sold.FeedConversionRatio)
	assert.True(t, sold.ActualProfitLoss.Equal(money("2257")), "got %s", sold.ActualProfitLoss)

	active := report.Rows[1]
	// Active batch: FCR against current live mass, 25/(2.5*490)
	assert.True(t, active.FeedConversionRatio.Equal(money("0.02")), "got %s", active.FeedConversionRatio)

	assert.Equal(t, 1010, report.TotalInitialBirds)
	assert.Equal(t, 490, report.TotalCurrentBirds)
	assert.Equal(t, 20, report.TotalMortality)
	assert.True(t, report.OverallMortalityRate.Equal(money("1.98")), "got %s", report.OverallMortalityRate)
}
