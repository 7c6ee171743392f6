package finance

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// ListFilter narrows ledger queries.
type ListFilter struct {
	domain.ListFilter
	TransactionType *TransactionType
	Category        *string
}

// Repository defines persistence for ledger transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, ownerID, txID id.ID) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, ownerID, txID id.ID) error
	List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Transaction], error)
}
