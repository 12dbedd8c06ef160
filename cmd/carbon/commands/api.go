package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/api"
	"github.com/wonny/carbon-portfolio/internal/api/handlers"
	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/internal/scheduler"
	"github.com/wonny/carbon-portfolio/internal/scheduler/jobs"
	"github.com/wonny/carbon-portfolio/pkg/logger"
	"github.com/wonny/carbon-portfolio/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the portfolio API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                               - Health check
  GET  /api/portfolio                        - All positions
  GET  /api/portfolio/summary[?status=...]   - Aggregate metrics

Example:
  go run ./cmd/carbon api
  go run ./cmd/carbon api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "also run the summary snapshot job")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":  cfg.Port,
		"env":   cfg.Env,
		"store": cfg.Store,
	}).Info("Initializing API server")

	// 3. Open position store
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := openBackend(ctx, cfg, log)
	cancel()
	if err != nil {
		return err
	}
	defer store.Close()

	// 4. Service and handlers
	service := portfolio.NewService(store.repo, log)
	portfolioHandler := handlers.NewPortfolioHandler(service, log)

	healthHandler := handlers.NewHealthHandler(cfg.Store, nil)
	if store.db != nil {
		healthHandler = handlers.NewHealthHandler(cfg.Store, store.db)
	}

	// 5. Router and server
	var limiter *redis.RateLimiter
	if store.redis.Enabled() {
		limiter = redis.NewRateLimiter(store.redis, cachePrefix)
	}
	router := api.NewRouter(portfolioHandler, healthHandler, cfg, limiter, log)
	server := api.New(cfg, log, router)

	// 6. Optional snapshot scheduler
	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewSummarySnapshotJob(service, store.snapshotWriter(), cfg.SnapshotSchedule, log)); err != nil {
			return fmt.Errorf("register snapshot job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 7. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Infof("Server running on http://localhost:%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
