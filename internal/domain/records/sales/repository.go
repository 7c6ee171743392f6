package sales

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// Repository defines persistence operations for sales records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, ownerID, recID id.ID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, ownerID, recID id.ID) error

	List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Record], error)
	CountByBatch(ctx context.Context, ownerID, batchID id.ID) (int64, error)
}

// ListFilter for filtering sales records.
type ListFilter struct {
	domain.ListFilter

	SaleType      *SaleType
	PaymentStatus *string
	CustomerName  *string
}
