package record_repo

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// FeedRepo implements feed.Repository.
type FeedRepo struct {
	*BaseRecordRepo[*feed.Record]
}

// NewFeedRepo creates a new feed record repository.
func NewFeedRepo(txManager *postgres.TxManager) *FeedRepo {
	return &FeedRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"feed_records",
			postgres.ExtractDBColumns[feed.Record](),
			func() *feed.Record { return &feed.Record{} },
		),
	}
}

func (r *FeedRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*feed.Record], error) {
	return r.BaseRecordRepo.List(ctx, ownerID, filter)
}

var _ feed.Repository = (*FeedRepo)(nil)
