package finance

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/tx"
	"broilerfarm/internal/domain"
	"broilerfarm/pkg/logger"
)

// Service provides CRUD for ledger transactions. Ledger entries do not
// touch batch or inventory state, so no reconciliation is involved.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new finance service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create records a ledger entry.
func (s *Service) Create(ctx context.Context, t *Transaction) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "financial transaction created",
		"id", t.ID, "type", t.TransactionType, "amount", t.Amount)
	return nil
}

// GetByID retrieves a ledger entry.
func (s *Service) GetByID(ctx context.Context, ownerID, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, ownerID, txID)
}

// Update edits a ledger entry.
func (s *Service) Update(ctx context.Context, t *Transaction) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}
	t.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, t); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "financial transaction updated", "id", t.ID, "version", t.Version)
	return nil
}

// Delete removes a ledger entry.
func (s *Service) Delete(ctx context.Context, ownerID, txID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, ownerID, txID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "financial transaction deleted", "id", txID)
	return nil
}

// List retrieves ledger entries with filtering.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Transaction], error) {
	return s.repo.List(ctx, ownerID, filter)
}
