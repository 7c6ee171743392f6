package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// HealthRepo implements health.Repository.
type HealthRepo struct {
	*BaseRecordRepo[*health.Record]
}

// NewHealthRepo creates a new health record repository.
func NewHealthRepo(txManager *postgres.TxManager) *HealthRepo {
	return &HealthRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"health_records",
			postgres.ExtractDBColumns[health.Record](),
			func() *health.Record { return &health.Record{} },
		),
	}
}

func (r *HealthRepo) List(ctx context.Context, ownerID id.ID, filter health.ListFilter) (domain.ListResult[*health.Record], error) {
	var extra []squirrel.Sqlizer
	if filter.EventType != nil {
		extra = append(extra, squirrel.Eq{"event_type": *filter.EventType})
	}

	return r.BaseRecordRepo.List(ctx, ownerID, filter.ListFilter, extra...)
}

var _ health.Repository = (*HealthRepo)(nil)
