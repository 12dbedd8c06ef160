package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/carbon-portfolio/internal/contracts"
)

// SnapshotWriter persists recorded summaries
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
}

// snapshotFilters are the views the portfolio page offers: all, then each known status
func snapshotFilters() []SummaryOptions {
	filters := []SummaryOptions{{}}
	for _, status := range contracts.KnownStatuses {
		filters = append(filters, WithStatus(status))
	}
	return filters
}

// TakeSnapshots summarizes one position snapshot under every page filter
func (s *Service) TakeSnapshots(ctx context.Context, at time.Time) ([]Snapshot, error) {
	positions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	filters := snapshotFilters()
	snapshots := make([]Snapshot, 0, len(filters))
	for _, opts := range filters {
		snapshots = append(snapshots, Snapshot{
			TakenAt:      at,
			StatusFilter: statusLabel(opts),
			Summary:      ComputeSummary(positions, opts),
		})
	}

	return snapshots, nil
}
