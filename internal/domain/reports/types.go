// Package reports provides financial and production report generation.
package reports

import (
	"time"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// Period bounds a report. Nil bounds are open-ended.
type Period struct {
	From *time.Time
	To   *time.Time
}

// CategoryAmount is a labeled money total within a report section.
type CategoryAmount struct {
	Category string      `json:"category"`
	Amount   types.Money `json:"amount"`
}

// --- Income statement (accrual basis) ---

// IncomeStatement breaks accrued revenue down against cost of goods
// sold and other operating expenses.
type IncomeStatement struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	TotalRevenue types.Money `json:"totalRevenue"`

	CostOfGoodsSold []CategoryAmount `json:"costOfGoodsSold"`
	TotalCOGS       types.Money      `json:"totalCogs"`
	GrossProfit     types.Money      `json:"grossProfit"`

	OperatingExpenses      []CategoryAmount `json:"operatingExpenses"`
	TotalOperatingExpenses types.Money      `json:"totalOperatingExpenses"`
	OperatingIncome        types.Money      `json:"operatingIncome"`
}

// --- Cash-flow statement (cash basis) ---

// CashFlowStatement reports actual cash movement: amounts received
// against expenses paid, plus owner financing activity.
type CashFlowStatement struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	// Operating activities
	CashReceived      types.Money `json:"cashReceived"`
	CashPaidExpenses  types.Money `json:"cashPaidExpenses"`
	NetCashOperating  types.Money `json:"netCashOperating"`
	OutstandingCredit types.Money `json:"outstandingCredit"`

	// Financing activities
	CapitalInjections types.Money `json:"capitalInjections"`
	Withdrawals       types.Money `json:"withdrawals"`
	NetCashFinancing  types.Money `json:"netCashFinancing"`

	NetChangeInCash types.Money `json:"netChangeInCash"`
}

// --- Batch performance ---

// BatchPerformanceRow is the per-batch line of the performance report.
type BatchPerformanceRow struct {
	BatchID   id.ID      `json:"batchId"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	AgeDays   int        `json:"ageDays"`

	InitialTotal   int         `json:"initialTotal"`
	CurrentCount   int         `json:"currentCount"`
	TotalMortality int         `json:"totalMortality"`
	MortalityRate  types.Money `json:"mortalityRate"`

	FeedConsumedKg      types.Quantity `json:"feedConsumedKg"`
	FeedConversionRatio types.Money    `json:"feedConversionRatio"`

	TotalRevenue     types.Money `json:"totalRevenue"`
	ChickCost        types.Money `json:"chickCost"`
	FeedCost         types.Money `json:"feedCost"`
	OtherExpenses    types.Money `json:"otherExpenses"`
	ActualProfitLoss types.Money `json:"actualProfitLoss"`
}

// BatchPerformanceReport collects the per-batch rows with farm totals.
type BatchPerformanceReport struct {
	Rows []BatchPerformanceRow `json:"rows"`

	TotalInitialBirds    int         `json:"totalInitialBirds"`
	TotalCurrentBirds    int         `json:"totalCurrentBirds"`
	TotalMortality       int         `json:"totalMortality"`
	OverallMortalityRate types.Money `json:"overallMortalityRate"`
}

// --- Read-side rows produced by the repository ---

// SalesTotals aggregates the sales ledger over a period.
type SalesTotals struct {
	TotalRevenue   types.Money `db:"total_revenue"`
	AmountReceived types.Money `db:"amount_received"`
	BalanceDue     types.Money `db:"balance_due"`
}

// FinancingTotals aggregates the financial transaction ledger.
type FinancingTotals struct {
	CapitalInjections types.Money `db:"capital_injections"`
	Withdrawals       types.Money `db:"withdrawals"`
}

// ExpenseCategoryTotal is an expense total grouped by reporting label.
// The label prefers the linked supply item's name over the raw
// expense category so feed purchases group under the feed they bought.
type ExpenseCategoryTotal struct {
	Label  string      `db:"label"`
	Amount types.Money `db:"amount"`
}

// BatchAggregates carries the per-batch sums the performance report
// derives its figures from.
type BatchAggregates struct {
	BatchID   id.ID      `db:"batch_id"`
	Name      string     `db:"name"`
	Status    string     `db:"status"`
	StartDate time.Time  `db:"start_date"`
	ClosedAt  *time.Time `db:"closed_at"`

	InitialTotal   int `db:"initial_total"`
	CurrentCount   int `db:"current_count"`
	TotalMortality int `db:"total_mortality"`

	FeedConsumedKg types.Quantity `db:"feed_consumed_kg"`
	CurrentWeight  types.Quantity `db:"current_weight"`
	WeightSoldKg   types.Quantity `db:"weight_sold_kg"`

	TotalRevenue  types.Money `db:"total_revenue"`
	ChickCost     types.Money `db:"chick_cost"`
	FeedCost      types.Money `db:"feed_cost"`
	OtherExpenses types.Money `db:"other_expenses"`
}
