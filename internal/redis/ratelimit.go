package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key pattern:
// - ratelimit:{principal}:history - window TTL, per-window history reads

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	HistoryLimit  int           // Max history reads per window
	HistoryWindow time.Duration // History rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		HistoryLimit:  120,
		HistoryWindow: 60 * time.Second,
	}
}

// NewRateLimitConfig builds a config from env-provided values. Non-positive
// values fall back to DefaultRateLimitConfig.
func NewRateLimitConfig(historyLimit, windowSec int) RateLimitConfig {
	cfg := DefaultRateLimitConfig()
	if historyLimit > 0 {
		cfg.HistoryLimit = historyLimit
	}
	if windowSec > 0 {
		cfg.HistoryWindow = time.Duration(windowSec) * time.Second
	}
	return cfg
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// Increments the counter while under the limit; the first hit sets the TTL.
var windowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		local n = redis.call('INCR', key)
		if n == 1 then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	end
	return {0, 0, ttl}
`)

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// AllowHistory checks if a principal can read chat history
func (r *RateLimiter) AllowHistory(ctx context.Context, principal string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, historyKey(principal), r.config.HistoryLimit, r.config.HistoryWindow)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := windowScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	allowed, ok1 := resultSlice[0].(int64)
	remaining, ok2 := resultSlice[1].(int64)
	ttl, ok3 := resultSlice[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("unexpected rate limit result types")
	}

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(ttl) * time.Second,
		Limit:     limit,
	}, nil
}

func historyKey(principal string) string {
	return fmt.Sprintf("ratelimit:%s:history", principal)
}
