package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/logger"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// RateDecision is the outcome of counting one request against a client's window.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Duration // until the current window ends
	RetryAfter time.Duration // set when blocked
}

// RateStore counts requests per client key.
type RateStore interface {
	Hit(ctx context.Context, key string) (RateDecision, error)
}

// RedisRateStore is a fixed-window counter. A client that exceeds the limit is
// blocked for the block duration, not just until the window ends.
type RedisRateStore struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	block  time.Duration
}

func NewRedisRateStore(rdb *redis.Client, limit int, window, block time.Duration) *RedisRateStore {
	if block <= 0 {
		block = window
	}
	return &RedisRateStore{rdb: rdb, limit: limit, window: window, block: block}
}

func (s *RedisRateStore) Hit(ctx context.Context, key string) (RateDecision, error) {
	blockKey := key + ":blocked"

	blocked, err := s.rdb.Get(ctx, blockKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return RateDecision{}, fmt.Errorf("read block flag: %w", err)
	}
	if blocked == "1" {
		ttl, _ := s.rdb.TTL(ctx, blockKey).Result()
		return RateDecision{Limit: s.limit, RetryAfter: ttl}, nil
	}

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return RateDecision{}, fmt.Errorf("increment counter: %w", err)
	}
	if count == 1 {
		s.rdb.Expire(ctx, key, s.window)
	}

	if count > int64(s.limit) {
		s.rdb.Set(ctx, blockKey, "1", s.block)
		return RateDecision{Limit: s.limit, RetryAfter: s.block}, nil
	}

	ttl, _ := s.rdb.TTL(ctx, key).Result()
	return RateDecision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - int(count),
		Reset:     ttl,
	}, nil
}

// RateLimiter rejects clients over their quota with 429. When the store is
// unreachable requests pass through.
func RateLimiter(store RateStore, keyPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyPrefix + ":ip:" + clientIP(r)

			d, err := store.Hit(r.Context(), key)
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
				writeJSON(w, http.StatusTooManyRequests, models.NewErrorResponse("Too many requests, try again in "+d.RetryAfter.String()))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(d.Reset.Seconds())))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the remote address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
