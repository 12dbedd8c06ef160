package portfolio

import (
	"context"
	"fmt"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// Service answers portfolio queries from a fresh snapshot on every call
type Service struct {
	repo   contracts.PositionRepository
	logger *logger.Logger
}

// NewService creates a new portfolio service
func NewService(repo contracts.PositionRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Positions lists positions, narrowed by opts
func (s *Service) Positions(ctx context.Context, opts SummaryOptions) ([]contracts.Position, error) {
	positions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	if opts.Status == nil {
		if positions == nil {
			positions = []contracts.Position{}
		}
		return positions, nil
	}

	return FilterByStatus(positions, opts), nil
}

// Summary aggregates the current snapshot
func (s *Service) Summary(ctx context.Context, opts SummaryOptions) (contracts.PortfolioSummary, error) {
	positions, err := s.repo.List(ctx)
	if err != nil {
		return contracts.PortfolioSummary{}, fmt.Errorf("list positions: %w", err)
	}

	summary := ComputeSummary(positions, opts)

	s.logger.WithFields(map[string]interface{}{
		"status":       statusLabel(opts),
		"positions":    len(positions),
		"total_tonnes": summary.TotalTonnes,
	}).Debug("Portfolio summary computed")

	return summary, nil
}

// statusLabel names the filter for logs and snapshots
func statusLabel(opts SummaryOptions) string {
	if opts.Status == nil {
		return "all"
	}
	return string(*opts.Status)
}
