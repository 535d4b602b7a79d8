package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/restaurant-hub/utils"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client in memory.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	idleTTL time.Duration
	ips     map[string]*visitor
	mu      sync.Mutex
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:    rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		ips:     make(map[string]*visitor),
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, v := range rl.ips {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.ips, ip)
		}
	}

	v, ok := rl.ips[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// RedisRateLimiter counts requests per client in fixed windows shared by
// every instance of the API.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix, now: time.Now}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := rl.now().UnixNano() / int64(rl.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", rl.prefix, key, slot)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= rl.limit, nil
}

// RateLimit rejects clients over their limit with 429. A failing limiter
// lets the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			utils.ErrorLogger.Printf("Error checking rate limit: %v", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", "60")
			utils.RespondError(c, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// NewStrictRateLimiter guards credential endpoints: 5 attempts per
// minute per client.
func NewStrictRateLimiter(rdb *redis.Client) Limiter {
	if rdb != nil {
		return NewRedisRateLimiter(rdb, "auth", 5, time.Minute)
	}
	return NewRateLimiter(float64(rate.Every(12*time.Second)), 5)
}
