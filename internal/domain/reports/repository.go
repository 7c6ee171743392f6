package reports

import (
	"context"

	"broilerfarm/internal/core/id"
)

// Repository defines the read-side aggregation queries reports build on.
type Repository interface {
	GetSalesTotals(ctx context.Context, ownerID id.ID, period Period) (SalesTotals, error)
	GetExpenseTotalsByLabel(ctx context.Context, ownerID id.ID, period Period) ([]ExpenseCategoryTotal, error)
	GetFinancingTotals(ctx context.Context, ownerID id.ID, period Period) (FinancingTotals, error)
	GetBatchAggregates(ctx context.Context, ownerID id.ID) ([]BatchAggregates, error)
}
