package batch

import (
	"context"
	"fmt"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/tx"
	"broilerfarm/internal/domain"
	"broilerfarm/pkg/logger"
)

// Service provides business operations for batches. Event-driven
// mutations (mortality, feed, weight, sales) do not go through here;
// they route through the reconciliation engine.
type Service struct {
	repo      Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Batch]
}

// NewService creates a new batch service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Batch](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Batch] {
	return s.hooks
}

// Create validates the batch, fixes its initial population and computes
// the creation-time financial estimate.
func (s *Service) Create(ctx context.Context, b *Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	b.Initialize()

	if err := s.hooks.Run(ctx, domain.BeforeCreate, b); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "batch created",
		"id", b.ID, "name", b.Name, "initial_total", b.InitialTotal)
	return nil
}

// GetByID retrieves a batch.
func (s *Service) GetByID(ctx context.Context, ownerID, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, ownerID, batchID)
}

// Update applies edits to static and budget fields, re-fixes the
// initial population when chick counts changed, and refreshes the
// frozen financial estimate. Sales and mortality totals are untouched.
func (s *Service) Update(ctx context.Context, b *Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	newInitial := b.PurchasedChickCount + b.FreeChickCount
	delta := newInitial - b.InitialTotal
	if delta != 0 {
		if b.CurrentCount+delta < 0 {
			return apperror.NewValidation("chick count reduction exceeds live birds").
				WithDetail("current_count", b.CurrentCount).
				WithDetail("reduction", -delta)
		}
		b.InitialTotal = newInitial
		b.CurrentCount += delta
	}
	b.RecomputeEstimates()

	if err := b.CheckInvariant(); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "batch updated", "id", b.ID, "version", b.Version)
	return nil
}

// Delete removes a batch. Dependent event records are retained as
// historical artifacts; a warning is logged when any exist so the
// caller can surface it.
func (s *Service) Delete(ctx context.Context, ownerID, batchID id.ID, hasRecords bool) error {
	b, err := s.repo.GetByID(ctx, ownerID, batchID)
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, b); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, ownerID, batchID)
	})
	if err != nil {
		return err
	}

	if hasRecords {
		logger.Warn(ctx, "batch deleted with dependent records retained",
			"id", batchID, "name", b.Name)
	} else {
		logger.Info(ctx, "batch deleted", "id", batchID)
	}
	return nil
}

// Close finishes a batch; no further event records are accepted.
func (s *Service) Close(ctx context.Context, ownerID, batchID id.ID) (*Batch, error) {
	return s.setStatus(ctx, ownerID, batchID, StatusClosed)
}

// Reopen reactivates a closed batch.
func (s *Service) Reopen(ctx context.Context, ownerID, batchID id.ID) (*Batch, error) {
	return s.setStatus(ctx, ownerID, batchID, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, ownerID, batchID id.ID, status Status) (*Batch, error) {
	var b *Batch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, ownerID, batchID)
		if err != nil {
			return err
		}
		if b.Status == status {
			return nil
		}
		if status == StatusClosed {
			b.Close()
		} else {
			b.Reopen()
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch status changed", "id", batchID, "status", status)
	return b, nil
}

// List retrieves batches with filtering.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter ListFilter) (domain.ListResult[*Batch], error) {
	return s.repo.List(ctx, ownerID, filter)
}
