package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/weight"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// WeightRepo implements weight.Repository.
type WeightRepo struct {
	*BaseRecordRepo[*weight.Record]
}

// NewWeightRepo creates a new weight record repository.
func NewWeightRepo(txManager *postgres.TxManager) *WeightRepo {
	return &WeightRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"weight_records",
			postgres.ExtractDBColumns[weight.Record](),
			func() *weight.Record { return &weight.Record{} },
		),
	}
}

func (r *WeightRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*weight.Record], error) {
	return r.BaseRecordRepo.List(ctx, ownerID, filter)
}

// GetLatestForBatch returns the batch's most recent weight sample.
// Ordering matches the reconciliation rule: business date first, then
// id (UUIDv7, so creation order breaks date ties). Returns nil when
// the batch has no remaining samples.
func (r *WeightRepo) GetLatestForBatch(ctx context.Context, ownerID, batchID id.ID, exclude ...id.ID) (*weight.Record, error) {
	q := r.baseSelect(ownerID).
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("date DESC", "id DESC").
		Limit(1)

	if len(exclude) > 0 {
		q = q.Where(squirrel.NotEq{"id": exclude})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rec := &weight.Record{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest weight: %w", err)
	}

	return rec, nil
}

var _ weight.Repository = (*WeightRepo)(nil)
