package ratelimit

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkScript opens a window on first use and refuses without incrementing at the limit.
var checkScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
  redis.call("SET", KEYS[1], 1, "PX", ARGV[2])
  return 1
end
if tonumber(current) >= tonumber(ARGV[1]) then
  return 0
end
redis.call("INCR", KEYS[1])
return 1
`)

// RedisLimiter shares fixed windows across API instances through Redis.
// Redis failures fail open and are logged.
type RedisLimiter struct {
	rdb    redis.Cmdable
	prefix string
	logger *log.Logger
}

// RedisOption customises a RedisLimiter.
type RedisOption func(*RedisLimiter)

// WithPrefix namespaces the Redis keys.
func WithPrefix(prefix string) RedisOption {
	return func(l *RedisLimiter) { l.prefix = strings.Trim(prefix, ":") }
}

// WithLogger sets the logger used for Redis errors.
func WithLogger(logger *log.Logger) RedisOption {
	return func(l *RedisLimiter) { l.logger = logger }
}

// NewRedisLimiter builds a limiter on top of a go-redis client.
func NewRedisLimiter(rdb redis.Cmdable, opts ...RedisOption) *RedisLimiter {
	l := &RedisLimiter{
		rdb:    rdb,
		prefix: "review-guard:ratelimit",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLimiter) key(key string) string {
	if l.prefix == "" {
		return key
	}
	return l.prefix + ":" + key
}

// Check implements Limiter.
func (l *RedisLimiter) Check(ctx context.Context, key string, maxRequests int, win time.Duration) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	allowed, err := checkScript.Run(ctx, l.rdb, []string{l.key(key)}, maxRequests, win.Milliseconds()).Int()
	if err != nil {
		l.logf("rate limit check failed for %q, allowing: %v", key, err)
		return true
	}
	return allowed == 1
}

// RemainingTime implements Limiter.
func (l *RedisLimiter) RemainingTime(ctx context.Context, key string) int {
	if l == nil || l.rdb == nil {
		return 0
	}
	ttl, err := l.rdb.PTTL(ctx, l.key(key)).Result()
	if err != nil {
		l.logf("rate limit ttl lookup failed for %q: %v", key, err)
		return 0
	}
	// PTTL reports -2 for a missing key and -1 for a key without expiry.
	return secondsCeil(ttl)
}

func (l *RedisLimiter) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}
