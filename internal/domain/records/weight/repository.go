package weight

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// Repository defines persistence operations for weight records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, ownerID, recID id.ID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, ownerID, recID id.ID) error

	List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*Record], error)
	CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error)

	// GetLatestForBatch returns the batch's latest sample by business
	// date, tie-broken by creation order (UUIDv7 sorts by time).
	// Records listed in exclude are skipped; nil when none remain.
	GetLatestForBatch(ctx context.Context, ownerID, batchID id.ID, exclude ...id.ID) (*Record, error)
}
