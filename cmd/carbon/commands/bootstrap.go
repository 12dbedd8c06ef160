package commands

import (
	"context"
	"fmt"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/pkg/config"
	"github.com/wonny/carbon-portfolio/pkg/database"
	"github.com/wonny/carbon-portfolio/pkg/logger"
	"github.com/wonny/carbon-portfolio/pkg/redis"
)

// cachePrefix namespaces every Redis key written by this service
const cachePrefix = "carbon"

// backend is the position store selected by STORE plus its connections
type backend struct {
	repo   contracts.PositionRepository
	db     *database.DB          // nil for the memory store
	pg     *portfolio.Repository // nil for the memory store
	redis  *redis.Client
	closer []func()
}

func (b *backend) Close() {
	for i := len(b.closer) - 1; i >= 0; i-- {
		b.closer[i]()
	}
}

// snapshotWriter returns the Postgres writer, or a nil interface on the memory store
func (b *backend) snapshotWriter() portfolio.SnapshotWriter {
	if b.pg == nil {
		return nil
	}
	return b.pg
}

// openBackend wires the configured store, wrapping Postgres with the Redis cache when enabled
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	b := &backend{}

	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	b.redis = rc
	b.closer = append(b.closer, func() { _ = rc.Close() })

	if !cfg.UsePostgres() {
		positions, err := memoryPositions(cfg.SeedFile)
		if err != nil {
			b.Close()
			return nil, err
		}
		log.WithFields(map[string]interface{}{
			"store":     config.StoreMemory,
			"positions": len(positions),
		}).Info("Using in-memory position store")

		b.repo = portfolio.NewMemoryStore(positions)
		return b, nil
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	b.db = db
	b.closer = append(b.closer, db.Close)

	b.pg = portfolio.NewRepository(db.Pool)
	if err := b.pg.EnsureSchema(ctx); err != nil {
		b.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	b.repo = b.pg

	if rc.Enabled() {
		b.repo = portfolio.NewCachedRepository(b.pg, redis.NewCache(rc, cachePrefix), cfg.Redis.CacheTTL, log)
	}

	log.WithFields(map[string]interface{}{
		"store":  config.StorePostgres,
		"cached": rc.Enabled(),
	}).Info("Using PostgreSQL position store")

	return b, nil
}

// memoryPositions reads the seed file, falling back to the built-in sample positions
func memoryPositions(seedFile string) ([]contracts.Position, error) {
	if seedFile == "" {
		return portfolio.SamplePositions(), nil
	}
	positions, err := portfolio.LoadSeedFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed file: %w", err)
	}
	return positions, nil
}
