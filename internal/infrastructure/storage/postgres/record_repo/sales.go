package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// SalesRepo implements sales.Repository.
type SalesRepo struct {
	*BaseRecordRepo[*sales.Record]
}

// NewSalesRepo creates a new sales record repository.
func NewSalesRepo(txManager *postgres.TxManager) *SalesRepo {
	return &SalesRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"sales_records",
			postgres.ExtractDBColumns[sales.Record](),
			func() *sales.Record { return &sales.Record{} },
		),
	}
}

func (r *SalesRepo) List(ctx context.Context, ownerID id.ID, filter sales.ListFilter) (domain.ListResult[*sales.Record], error) {
	var extra []squirrel.Sqlizer
	if filter.SaleType != nil {
		extra = append(extra, squirrel.Eq{"sale_type": *filter.SaleType})
	}
	if filter.PaymentStatus != nil {
		extra = append(extra, squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.CustomerName != nil {
		extra = append(extra, squirrel.ILike{"customer_name": "%" + *filter.CustomerName + "%"})
	}

	return r.BaseRecordRepo.List(ctx, ownerID, filter.ListFilter, extra...)
}

var _ sales.Repository = (*SalesRepo)(nil)
