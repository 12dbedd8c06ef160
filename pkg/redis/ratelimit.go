package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting shared across API replicas
type RateLimiter struct {
	client *Client
	prefix string
	script *redis.Script
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // bucket identifier, e.g. the client IP
	Limit  int           // maximum requests allowed
	Window time.Duration // time window
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local seq_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		-- members must be unique, requests in the same millisecond share a score
		local seq = redis.call('INCR', seq_key)
		redis.call('PEXPIRE', seq_key, window_ms)
		redis.call('ZADD', key, now, ARGV[1] .. '-' .. seq)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	else
		return {0, 0}
	end
`)

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		script: slidingWindowScript,
	}
}

// Allow checks if a request is allowed under the rate limit
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	result, err := r.script.Run(ctx, r.client.Redis(), []string{key, key + ":seq"},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(result) != 2 {
		return false, 0, fmt.Errorf("rate limit script returned %d values", len(result))
	}

	return result[0] == 1, int(result[1]), nil
}

// APIRateLimit builds the per-client limit for the portfolio API
func APIRateLimit(clientKey string, limit int) RateLimitConfig {
	return RateLimitConfig{
		Key:    "api:" + clientKey,
		Limit:  limit,
		Window: time.Second,
	}
}
