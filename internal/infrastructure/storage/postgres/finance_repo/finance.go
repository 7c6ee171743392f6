// Package finance_repo provides the PostgreSQL implementation of the
// financial transaction repository.
package finance_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/finance"
	"broilerfarm/internal/infrastructure/storage/postgres"
	"broilerfarm/internal/infrastructure/storage/postgres/record_repo"
)

// Repo implements finance.Repository. Ledger transactions share the
// event record shape (owner scoped, dated, versioned), so the generic
// record repository carries the CRUD.
type Repo struct {
	*record_repo.BaseRecordRepo[*finance.Transaction]
}

// NewRepo creates a new financial transaction repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		BaseRecordRepo: record_repo.NewBaseRecordRepo(
			txManager,
			"financial_transactions",
			postgres.ExtractDBColumns[finance.Transaction](),
			func() *finance.Transaction { return &finance.Transaction{} },
		),
	}
}

func (r *Repo) List(ctx context.Context, ownerID id.ID, filter finance.ListFilter) (domain.ListResult[*finance.Transaction], error) {
	var extra []squirrel.Sqlizer
	if filter.TransactionType != nil {
		extra = append(extra, squirrel.Eq{"transaction_type": *filter.TransactionType})
	}
	if filter.Category != nil {
		extra = append(extra, squirrel.Eq{"category": *filter.Category})
	}
	if filter.Search != "" {
		extra = append(extra, squirrel.ILike{"description": "%" + filter.Search + "%"})
	}

	return r.BaseRecordRepo.List(ctx, ownerID, filter.ListFilter, extra...)
}

var _ finance.Repository = (*Repo)(nil)
