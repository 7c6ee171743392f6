package supply

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/tx"
	"broilerfarm/internal/domain"
	"broilerfarm/pkg/logger"
)

// Service provides CRUD operations for supply items. Stock movements
// from feed/health/expense events route through the reconciliation
// engine, not here; this service only manages the catalog side.
type Service struct {
	repo      Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Item]
}

// NewService creates a new supply service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Item](),
	}
}

// Hooks returns the hook registry for external registration. Hooks
// run inside the update transaction, so the low-stock alerter's
// outbox write commits or rolls back with the stock change.
func (s *Service) Hooks() *domain.HookRegistry[*Item] {
	return s.hooks
}

// Create creates a supply item.
func (s *Service) Create(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, item); err != nil {
			return fmt.Errorf("create supply item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supply item created", "id", item.ID, "name", item.Name)
	return nil
}

// GetByID retrieves a supply item.
func (s *Service) GetByID(ctx context.Context, ownerID, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, ownerID, itemID)
}

// Update edits item attributes. Direct stock adjustments here are
// allowed (manual corrections); event-driven movements are not.
func (s *Service) Update(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, item); err != nil {
			return fmt.Errorf("update supply item: %w", err)
		}
		if err := s.hooks.Run(ctx, domain.AfterUpdate, item); err != nil {
			return fmt.Errorf("supply after-update hook: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supply item updated", "id", item.ID, "version", item.Version)
	return nil
}

// Delete removes a supply item.
func (s *Service) Delete(ctx context.Context, ownerID, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, ownerID, itemID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supply item deleted", "id", itemID)
	return nil
}

// List retrieves supply items with filtering.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.List(ctx, ownerID, filter)
}

// ListLowStock returns items at or below their reorder threshold.
func (s *Service) ListLowStock(ctx context.Context, ownerID id.ID) ([]*Item, error) {
	return s.repo.ListLowStock(ctx, ownerID)
}
