package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"marketplace-api/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter decides whether one more request under key fits in the budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisRateLimiter is a fixed-window counter shared by all API instances.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
}

func NewRedisRateLimiter(client *redis.Client, cfg config.RateLimitConfig, prefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  cfg.AuthRequests,
		window: cfg.Window,
		prefix: prefix,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + ":" + key}, ttl, l.limit).Int64()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// LocalRateLimiter keeps one token bucket per key in process memory.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewLocalRateLimiter(cfg config.RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(cfg.Window / time.Duration(cfg.AuthRequests)),
		burst:    cfg.AuthRequests,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		// Bounded memory: start over rather than track last access per key.
		if len(l.limiters) > 10000 {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow(), nil
}

// RateLimit rejects clients that exceed the limiter's budget with 429. A failing
// limiter lets the request through.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			log.WithFields(log.Fields{"client_ip": key, "path": c.Request.URL.Path}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"kind": "rate_limited", "error": "Too many requests"})
			return
		}
		c.Next()
	}
}
