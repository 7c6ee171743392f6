package health

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// Repository defines persistence operations for health records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, ownerID, recID id.ID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, ownerID, recID id.ID) error

	List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Record], error)
	CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error)
}

// ListFilter for filtering health records.
type ListFilter struct {
	domain.ListFilter

	EventType *EventType
}
