package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/internal/scheduler"
	"github.com/wonny/carbon-portfolio/internal/scheduler/jobs"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the summary snapshot scheduler",
	Long: `Runs periodic jobs against the configured position store.

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run one job immediately

Example:
  go run ./cmd/carbon scheduler start
  go run ./cmd/carbon scheduler run summary_snapshot`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and blocks until interrupted.

Registered jobs:
- summary_snapshot: SNAPSHOT_SCHEDULE (default hourly), records the
  summary for all, available and retired positions`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, store, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer store.Close()

	sched.Start()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scheduler started. Registered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	printJobStats(cmd, sched)
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, store, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer store.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Registered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	sched, store, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := sched.RunNow(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s finished in %s (attempts: %d)\n", result.JobName, result.Duration, result.Attempts)
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}
	return nil
}

func printJobStats(cmd *cobra.Command, sched *scheduler.Scheduler) {
	out := cmd.OutOrStdout()
	stats := sched.JobStats()
	for _, name := range sched.JobNames() {
		stat := stats[name]
		fmt.Fprintf(out, "%s: %d runs, %d ok, %d failed (%.1f%%)\n",
			name, stat.TotalRuns, stat.SuccessCount, stat.FailureCount, stat.SuccessRate*100)
		if stat.LastError != "" {
			fmt.Fprintf(out, "   last error: %s\n", stat.LastError)
		}
	}
}

func initScheduler() (*scheduler.Scheduler, *backend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	service := portfolio.NewService(store.repo, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewSummarySnapshotJob(service, store.snapshotWriter(), cfg.SnapshotSchedule, log)); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("register snapshot job: %w", err)
	}

	return sched, store, nil
}
