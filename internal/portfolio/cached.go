package portfolio

import (
	"context"
	"time"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/logger"
	"github.com/wonny/carbon-portfolio/pkg/redis"
)

// CachedRepository keeps the position snapshot in Redis for ttl.
// Cache failures are logged and the inner repository is used instead.
type CachedRepository struct {
	inner  contracts.PositionRepository
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedRepository wraps inner with a cache-aside layer
func NewCachedRepository(inner contracts.PositionRepository, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = redis.TTLShort
	}
	return &CachedRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// List serves the cached snapshot, loading and storing it on a miss
func (c *CachedRepository) List(ctx context.Context) ([]contracts.Position, error) {
	var cached []contracts.Position
	found, err := c.cache.Get(ctx, redis.PositionsKey(), &cached)
	if err != nil {
		c.logger.WithError(err).Warn("Position cache read failed")
	}
	if found {
		return cached, nil
	}

	positions, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, redis.PositionsKey(), positions, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Position cache write failed")
	}

	return positions, nil
}

// Invalidate drops the cached snapshot
func (c *CachedRepository) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, redis.PositionsKey())
}
