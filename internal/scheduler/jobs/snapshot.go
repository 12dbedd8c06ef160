package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// SummarySnapshotJob records the portfolio summary for every page filter
type SummarySnapshotJob struct {
	service  *portfolio.Service
	writer   portfolio.SnapshotWriter // nil when running on the memory store
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewSummarySnapshotJob creates a new snapshot job
func NewSummarySnapshotJob(service *portfolio.Service, writer portfolio.SnapshotWriter, schedule string, log *logger.Logger) *SummarySnapshotJob {
	return &SummarySnapshotJob{
		service:  service,
		writer:   writer,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *SummarySnapshotJob) Name() string {
	return "summary_snapshot"
}

// Schedule returns the cron schedule (seconds field included)
func (j *SummarySnapshotJob) Schedule() string {
	return j.schedule
}

// Run computes and records the snapshots
func (j *SummarySnapshotJob) Run(ctx context.Context) error {
	snapshots, err := j.service.TakeSnapshots(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("take snapshots: %w", err)
	}

	for _, s := range snapshots {
		j.logger.WithFields(map[string]interface{}{
			"status":                  s.StatusFilter,
			"total_tonnes":            s.Summary.TotalTonnes,
			"total_value":             s.Summary.TotalValue,
			"average_price_per_tonne": s.Summary.AveragePricePerTonne,
		}).Info("Portfolio summary snapshot")

		if j.writer == nil {
			continue
		}
		if err := j.writer.SaveSnapshot(ctx, s); err != nil {
			return fmt.Errorf("save snapshot %s: %w", s.StatusFilter, err)
		}
	}

	return nil
}
