package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/metrics"
)

// cogsKeywords classify an expense label as a direct production cost.
// Matching is substring, case-insensitive, so "Starter feed" and
// "Day-old chicks" both land in cost of goods sold.
var cogsKeywords = []string{
	"feed", "chick", "chicks", "livestock", "purchase",
	"medication", "vaccine", "day-old",
}

// Service generates reports from the read-side aggregation queries.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validatePeriod(p Period) error {
	if p.From != nil && p.To != nil && p.From.After(*p.To) {
		return apperror.NewValidation("period start must not be after period end")
	}
	return nil
}

func isCOGS(label string) bool {
	lower := strings.ToLower(label)
	for _, kw := range cogsKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// GetIncomeStatement builds the accrual-basis income statement:
// total revenue less cost of goods sold gives gross profit, less the
// remaining operating expenses gives operating income.
func (s *Service) GetIncomeStatement(ctx context.Context, ownerID id.ID, period Period) (*IncomeStatement, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	salesTotals, err := s.repo.GetSalesTotals(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	expenseTotals, err := s.repo.GetExpenseTotalsByLabel(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	stmt := &IncomeStatement{
		From:         period.From,
		To:           period.To,
		TotalRevenue: salesTotals.TotalRevenue,
		TotalCOGS:    types.Zero(),

		TotalOperatingExpenses: types.Zero(),
	}
	for _, e := range expenseTotals {
		if isCOGS(e.Label) {
			stmt.CostOfGoodsSold = append(stmt.CostOfGoodsSold, CategoryAmount{Category: e.Label, Amount: e.Amount})
			stmt.TotalCOGS = stmt.TotalCOGS.Add(e.Amount)
		} else {
			stmt.OperatingExpenses = append(stmt.OperatingExpenses, CategoryAmount{Category: e.Label, Amount: e.Amount})
			stmt.TotalOperatingExpenses = stmt.TotalOperatingExpenses.Add(e.Amount)
		}
	}
	sortByCategory(stmt.CostOfGoodsSold)
	sortByCategory(stmt.OperatingExpenses)

	stmt.GrossProfit = types.Round2(stmt.TotalRevenue.Sub(stmt.TotalCOGS))
	stmt.OperatingIncome = types.Round2(stmt.GrossProfit.Sub(stmt.TotalOperatingExpenses))
	return stmt, nil
}

// GetCashFlowStatement builds the cash-basis statement. Operating
// activity counts money actually received, so outstanding credit sale
// balances are reported separately rather than as inflows.
func (s *Service) GetCashFlowStatement(ctx context.Context, ownerID id.ID, period Period) (*CashFlowStatement, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	salesTotals, err := s.repo.GetSalesTotals(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	expenseTotals, err := s.repo.GetExpenseTotalsByLabel(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	financing, err := s.repo.GetFinancingTotals(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	totalExpenses := types.Zero()
	for _, e := range expenseTotals {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	stmt := &CashFlowStatement{
		From:              period.From,
		To:                period.To,
		CashReceived:      salesTotals.AmountReceived,
		CashPaidExpenses:  totalExpenses,
		OutstandingCredit: salesTotals.BalanceDue,
		CapitalInjections: financing.CapitalInjections,
		Withdrawals:       financing.Withdrawals,
	}
	stmt.NetCashOperating = types.Round2(stmt.CashReceived.Sub(stmt.CashPaidExpenses))
	stmt.NetCashFinancing = types.Round2(stmt.CapitalInjections.Sub(stmt.Withdrawals))
	stmt.NetChangeInCash = types.Round2(stmt.NetCashOperating.Add(stmt.NetCashFinancing))
	return stmt, nil
}

// GetBatchPerformance builds the per-batch production report. For
// closed batches the conversion ratio is computed against the total
// weight sold; for active batches against the current live mass.
func (s *Service) GetBatchPerformance(ctx context.Context, ownerID id.ID) (*BatchPerformanceReport, error) {
	aggregates, err := s.repo.GetBatchAggregates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &BatchPerformanceReport{OverallMortalityRate: types.Zero()}
	for _, agg := range aggregates {
		row := BatchPerformanceRow{
			BatchID:        agg.BatchID,
			Name:           agg.Name,
			Status:         agg.Status,
			StartDate:      agg.StartDate,
			ClosedAt:       agg.ClosedAt,
			AgeDays:        ageDays(agg, now),
			InitialTotal:   agg.InitialTotal,
			CurrentCount:   agg.CurrentCount,
			TotalMortality: agg.TotalMortality,
			MortalityRate:  metrics.MortalityRate(agg.TotalMortality, agg.InitialTotal),
			FeedConsumedKg: agg.FeedConsumedKg,
			TotalRevenue:   agg.TotalRevenue,
			ChickCost:      agg.ChickCost,
			FeedCost:       agg.FeedCost,
			OtherExpenses:  agg.OtherExpenses,
			ActualProfitLoss: metrics.ActualProfitLoss(
				agg.TotalRevenue, agg.ChickCost, agg.FeedCost, agg.OtherExpenses),
		}
		if agg.Status == string(batch.StatusClosed) {
			row.FeedConversionRatio = metrics.FeedConversionRatio(agg.FeedConsumedKg, agg.WeightSoldKg, 1)
		} else {
			row.FeedConversionRatio = metrics.FeedConversionRatio(agg.FeedConsumedKg, agg.CurrentWeight, agg.CurrentCount)
		}
		report.Rows = append(report.Rows, row)

		report.TotalInitialBirds += agg.InitialTotal
		report.TotalCurrentBirds += agg.CurrentCount
		report.TotalMortality += agg.TotalMortality
	}
	report.OverallMortalityRate = metrics.MortalityRate(report.TotalMortality, report.TotalInitialBirds)
	return report, nil
}

func ageDays(agg BatchAggregates, now time.Time) int {
	end := now
	if agg.ClosedAt != nil {
		end = *agg.ClosedAt
	}
	if agg.StartDate.IsZero() || end.Before(agg.StartDate) {
		return 0
	}
	return int(end.Sub(agg.StartDate).Hours() / 24)
}

func sortByCategory(items []CategoryAmount) {
	sort.Slice(items, func(i, j int) bool { return items[i].Category < items[j].Category })
}
