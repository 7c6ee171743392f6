package supply

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// Repository defines persistence operations for supply items.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, ownerID, itemID id.ID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, ownerID, itemID id.ID) error

	List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Item], error)

	// ListLowStock returns items at or below their buffer threshold.
	ListLowStock(ctx context.Context, ownerID id.ID) ([]*Item, error)

	// GetForUpdate reads the item with a row lock inside a transaction.
	GetForUpdate(ctx context.Context, ownerID, itemID id.ID) (*Item, error)
}

// ListFilter for filtering supply items.
type ListFilter struct {
	domain.ListFilter

	Category *Category
}
