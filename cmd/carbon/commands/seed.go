package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/pkg/database"
	"github.com/wonny/carbon-portfolio/pkg/logger"
	"github.com/wonny/carbon-portfolio/pkg/redis"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load positions into PostgreSQL",
	Long: `Creates the portfolio schema if needed and upserts positions from
--file (or the built-in sample portfolio) into portfolio.positions,
then drops the cached position snapshot when Redis is enabled.

Example:
  go run ./cmd/carbon seed --file positions.json`,
	RunE: runSeed,
}

var seedFile string

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "positions JSON file (default: sample positions)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	log := logger.New(cfg)

	positions, err := memoryPositions(seedFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := portfolio.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := repo.UpsertPositions(ctx, positions); err != nil {
		return fmt.Errorf("upsert positions: %w", err)
	}

	// Drop the cached snapshot so the API serves the new positions immediately.
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, cached positions expire on their own")
	} else {
		defer rc.Close()
		cached := portfolio.NewCachedRepository(repo, redis.NewCache(rc, cachePrefix), cfg.Redis.CacheTTL, log)
		if err := cached.Invalidate(ctx); err != nil {
			log.WithError(err).Warn("Failed to invalidate position cache")
		}
	}

	log.WithField("positions", len(positions)).Info("Positions seeded")
	return nil
}
