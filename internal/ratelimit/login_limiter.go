package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const loginBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  local refill = (delta / 1000) * rate
  tokens = math.min(burst, tokens + refill)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HMSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return allowed
`

// LoginLimiter throttles credential attempts per username so a till
// exposed on a shop network cannot be brute-forced. It is a redis
// token bucket; when redis is not configured the limiter is nil and
// every attempt is allowed.
type LoginLimiter struct {
	client *redis.Client
	script *redis.Script

	ratePerSecond float64
	burst         int
	keyTTL        time.Duration
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		client:        client,
		script:        redis.NewScript(loginBucketScript),
		ratePerSecond: 0.2,
		burst:         5,
		keyTTL:        10 * time.Minute,
	}
}

// Allow reports whether another login attempt for key may proceed.
// Redis outages fail open; an unreachable limiter must not lock the
// till out.
func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}

	res, err := l.script.Run(ctx, l.client,
		[]string{"tillpoint:login:" + key},
		l.ratePerSecond,
		l.burst,
		l.keyTTL.Milliseconds(),
	).Int64()
	if err != nil {
		return true
	}
	return res == 1
}
