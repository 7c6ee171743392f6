package batch

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// Repository defines persistence operations for batches.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, ownerID, batchID id.ID) (*Batch, error)
	Update(ctx context.Context, b *Batch) error
	Delete(ctx context.Context, ownerID, batchID id.ID) error

	List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Batch], error)

	// GetForUpdate reads the batch with a row lock. Must be called
	// inside a transaction; reconciliation flows always read through
	// this to avoid lost updates.
	GetForUpdate(ctx context.Context, ownerID, batchID id.ID) (*Batch, error)
}

// ListFilter for filtering batches.
type ListFilter struct {
	domain.ListFilter

	Status *Status
	Breed  *string
}
