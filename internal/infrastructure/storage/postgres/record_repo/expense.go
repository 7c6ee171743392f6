package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	*BaseRecordRepo[*expense.Record]
}

// NewExpenseRepo creates a new expense record repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"expenses",
			postgres.ExtractDBColumns[expense.Record](),
			func() *expense.Record { return &expense.Record{} },
		),
	}
}

func (r *ExpenseRepo) List(ctx context.Context, ownerID id.ID, filter expense.ListFilter) (domain.ListResult[*expense.Record], error) {
	var extra []squirrel.Sqlizer
	if filter.Category != nil {
		extra = append(extra, squirrel.Eq{"category": *filter.Category})
	}
	if filter.SupplyItemID != nil {
		extra = append(extra, squirrel.Eq{"supply_item_id": *filter.SupplyItemID})
	}

	return r.BaseRecordRepo.List(ctx, ownerID, filter.ListFilter, extra...)
}

var _ expense.Repository = (*ExpenseRepo)(nil)
