package record_repo

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// MortalityRepo implements mortality.Repository.
type MortalityRepo struct {
	*BaseRecordRepo[*mortality.Record]
}

// NewMortalityRepo creates a new mortality record repository.
func NewMortalityRepo(txManager *postgres.TxManager) *MortalityRepo {
	return &MortalityRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"mortality_records",
			postgres.ExtractDBColumns[mortality.Record](),
			func() *mortality.Record { return &mortality.Record{} },
		),
	}
}

func (r *MortalityRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*mortality.Record], error) {
	return r.BaseRecordRepo.List(ctx, ownerID, filter)
}

var _ mortality.Repository = (*MortalityRepo)(nil)
