// Package report_repo provides the PostgreSQL read-side aggregations
// the report services build their statements from. Queries stay in raw
// SQL: each one is a single aggregation shaped exactly for its report.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/reports"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// periodFilter appends date-bound conditions for the given column and
// returns the updated WHERE fragment and args.
func periodFilter(where string, args []any, column string, period reports.Period) (string, []any) {
	if period.From != nil {
		args = append(args, *period.From)
		where += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if period.To != nil {
		args = append(args, *period.To)
		where += fmt.Sprintf(" AND %s <= $%d", column, len(args))
	}
	return where, args
}

// GetSalesTotals sums the sales ledger over the period.
func (r *ReportRepo) GetSalesTotals(ctx context.Context, ownerID id.ID, period reports.Period) (reports.SalesTotals, error) {
	where := "owner_id = $1"
	args := []any{ownerID}
	where, args = periodFilter(where, args, "date", period)

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(total_revenue), 0)   AS total_revenue,
			COALESCE(SUM(amount_received), 0) AS amount_received,
			COALESCE(SUM(balance_due), 0)     AS balance_due
		FROM sales_records
		WHERE %s`, where)

	var totals reports.SalesTotals
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &totals, query, args...); err != nil {
		return totals, fmt.Errorf("sales totals: %w", err)
	}

	return totals, nil
}

// GetExpenseTotalsByLabel sums expenses grouped by reporting label.
// Purchases linked to a supply item report under the item's name, so
// all feed buys for "Starter Crumble" land in one row regardless of
// how the category field was filled in.
func (r *ReportRepo) GetExpenseTotalsByLabel(ctx context.Context, ownerID id.ID, period reports.Period) ([]reports.ExpenseCategoryTotal, error) {
	where := "e.owner_id = $1"
	args := []any{ownerID}
	where, args = periodFilter(where, args, "e.date", period)

	query := fmt.Sprintf(`
		SELECT
			COALESCE(si.name, NULLIF(e.category, ''), 'Uncategorized') AS label,
			COALESCE(SUM(e.amount), 0) AS amount
		FROM expenses e
		LEFT JOIN supply_items si ON si.id = e.supply_item_id
		WHERE %s
		GROUP BY 1
		ORDER BY 2 DESC`, where)

	var totals []reports.ExpenseCategoryTotal
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}

	return totals, nil
}

// GetFinancingTotals sums capital movements from the transaction ledger.
func (r *ReportRepo) GetFinancingTotals(ctx context.Context, ownerID id.ID, period reports.Period) (reports.FinancingTotals, error) {
	where := "owner_id = $1"
	args := []any{ownerID}
	where, args = periodFilter(where, args, "date", period)

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Capital Injection'), 0) AS capital_injections,
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Withdrawal'), 0)        AS withdrawals
		FROM financial_transactions
		WHERE %s`, where)

	var totals reports.FinancingTotals
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &totals, query, args...); err != nil {
		return totals, fmt.Errorf("financing totals: %w", err)
	}

	return totals, nil
}

// GetBatchAggregates returns the per-batch sums behind the performance
// report. Feed cost prices each batch's consumption at the average
// purchase cost of the item it consumed; expenses tagged to the batch
// but not tied to inventory count as other costs.
func (r *ReportRepo) GetBatchAggregates(ctx context.Context, ownerID id.ID) ([]reports.BatchAggregates, error) {
	query := `
		WITH item_costs AS (
			SELECT
				supply_item_id,
				SUM(amount) / NULLIF(SUM(quantity_purchased) / 10000.0, 0) AS cost_per_unit
			FROM expenses
			WHERE owner_id = $1 AND supply_item_id IS NOT NULL
			GROUP BY supply_item_id
		),
		feed AS (
			SELECT
				fr.batch_id,
				SUM(fr.quantity_kg) AS feed_consumed_kg,
				SUM(fr.quantity_kg / 10000.0 * COALESCE(ic.cost_per_unit, 0)) AS feed_cost
			FROM feed_records fr
			LEFT JOIN item_costs ic ON ic.supply_item_id = fr.supply_item_id
			WHERE fr.owner_id = $1
			GROUP BY fr.batch_id
		),
		sold AS (
			SELECT
				batch_id,
				SUM(total_revenue) AS total_revenue,
				SUM(total_weight_kg) AS weight_sold_kg
			FROM sales_records
			WHERE owner_id = $1
			GROUP BY batch_id
		),
		other_exp AS (
			SELECT
				batch_id,
				SUM(amount) AS other_expenses
			FROM expenses
			WHERE owner_id = $1 AND batch_id IS NOT NULL AND supply_item_id IS NULL
			GROUP BY batch_id
		)
		SELECT
			b.id AS batch_id,
			b.name,
			b.status,
			b.purchase_date AS start_date,
			b.closed_at,
			b.initial_total,
			b.current_count,
			b.total_mortality,
			COALESCE(f.feed_consumed_kg, 0) AS feed_consumed_kg,
			b.current_weight,
			COALESCE(s.weight_sold_kg, 0) AS weight_sold_kg,
			COALESCE(s.total_revenue, 0) AS total_revenue,
			b.chick_price * b.purchased_chick_count AS chick_cost,
			COALESCE(f.feed_cost, 0) AS feed_cost,
			COALESCE(oe.other_expenses, 0) AS other_expenses
		FROM batches b
		LEFT JOIN feed f ON f.batch_id = b.id
		LEFT JOIN sold s ON s.batch_id = b.id
		LEFT JOIN other_exp oe ON oe.batch_id = b.id
		WHERE b.owner_id = $1
		ORDER BY b.purchase_date DESC, b.id DESC`

	var rows []reports.BatchAggregates
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("batch aggregates: %w", err)
	}

	return rows, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
