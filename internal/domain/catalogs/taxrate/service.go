package taxrate

import (
	"context"
	"fmt"

	"invoport/internal/core/tx"
)

// Service provides business logic for the TaxRate catalog.
type Service struct {
	repo Repository
	tx   tx.Manager
}

// NewService creates a new TaxRate service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, tx: txManager}
}

// SetDefault flags the given rate as the default. The previously flagged
// rate is unset inside the same transaction, so at most one default ever
// exists.
func (s *Service) SetDefault(ctx context.Context, rate *TaxRate) error {
	return s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UnsetDefault(ctx); err != nil {
			return fmt.Errorf("unset previous default: %w", err)
		}
		if err := s.repo.MarkDefault(ctx, rate.ID); err != nil {
			return fmt.Errorf("mark default: %w", err)
		}
		rate.IsDefault = true
		return nil
	})
}
