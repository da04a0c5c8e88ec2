package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set of upload timestamps (milliseconds).
// KEYS[1] = limiter key
// ARGV[1] = max uploads in the window
// ARGV[2] = window in milliseconds
// ARGV[3] = now in milliseconds
// ARGV[4] = unique member for this attempt
// Returns {1, 0} when allowed, {0, retry_after_ms} when limited.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local retry = window
    if oldest[2] then
        retry = tonumber(oldest[2]) + window - now
    end
    return {0, retry}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, 0}
`)

// UploadLimiter caps uploads per principal within a sliding window.
type UploadLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewUploadLimiter allows limit uploads per window. Non-positive values fall
// back to 20 uploads per 10 minutes.
func NewUploadLimiter(client *redis.Client, limit int, window time.Duration) *UploadLimiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &UploadLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (u *UploadLimiter) Allow(ctx context.Context, principalID string) (bool, time.Duration, error) {
	now := u.now().UnixMilli()
	member := uuid.NewString()

	res, err := slidingWindow.Run(ctx, u.client,
		[]string{"ratelimit:upload:" + principalID},
		u.limit, u.window.Milliseconds(), now, member,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("upload limiter: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("upload limiter: unexpected reply %v", res)
	}
	return res[0] == 1, time.Duration(res[1]) * time.Millisecond, nil
}
