package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/reelmatch/reelmatch-server-go/internal/httputil"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
)

const (
	rateLimitKeyPrefix = "ratelimit:"
	rateLimitWindow    = 60 * time.Second
)

var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = 0
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    else
        resetAt = now + window
    end
    return {0, 0, resetAt}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

local remaining = limit - count - 1
local resetAt = now + window

return {1, remaining, resetAt}
`)

// RedisRateLimiter is a sliding-window counter over a redis sorted set.
// Redis failures fail open: a broken cache must not take the API down.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (rl *RedisRateLimiter) Check(ctx context.Context, clientID string, limit int) (allowed bool, remaining int, resetAt int64) {
	now := time.Now().Unix()
	key := rateLimitKeyPrefix + clientID

	result, err := rateLimitScript.Run(ctx, rl.client, []string{key}, now, int64(rateLimitWindow.Seconds()), limit).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("clientId", clientID).Msg("redis rate limit check failed, allowing request")
		return true, limit - 1, now + int64(rateLimitWindow.Seconds())
	}

	if len(result) != 3 {
		log.Warn().Str("clientId", clientID).Msg("unexpected redis rate limit result")
		return true, limit - 1, now + int64(rateLimitWindow.Seconds())
	}

	return result[0] == 1, int(result[1]), result[2]
}

// RedisRateLimitMiddleware throttles per client IP. There are no accounts
// in this API, so RealIP (which must run earlier in the chain) is the
// closest stable client identity available.
type RedisRateLimitMiddleware struct {
	limiter *RedisRateLimiter
	limit   int
}

func NewRedisRateLimitMiddleware(redisClient *redis.Client, limit int) *RedisRateLimitMiddleware {
	return &RedisRateLimitMiddleware{
		limiter: NewRedisRateLimiter(redisClient),
		limit:   limit,
	}
}

func (m *RedisRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, resetAt := m.limiter.Check(r.Context(), r.RemoteAddr, m.limit)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))

		if !allowed {
			log.Warn().Str("remoteAddr", r.RemoteAddr).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			httputil.WriteError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
