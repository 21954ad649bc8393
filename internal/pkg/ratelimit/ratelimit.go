// Package ratelimit 基于 Redis Lua 脚本的按客户端令牌桶。
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"avnu/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited 令牌不足，调用方应在 RetryAfter 后重试。
var ErrRateLimited = errors.New("rate limited")

const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

if rate <= 0 or burst <= 0 then
  return {1, 0, burst}
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
local refill = (delta * rate) / 1000.0
tokens = math.min(burst, tokens + refill)

local allowed = tokens >= requested
local wait_ms = 0
if allowed then
  tokens = tokens - requested
else
  wait_ms = math.ceil((requested - tokens) * 1000.0 / rate)
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return {allowed and 1 or 0, wait_ms, tokens}
`

// Limiter 每个客户端一个令牌桶，桶状态保存在 Redis，多实例共享。
type Limiter struct {
	rdb    *redis.Client
	prefix string
	rate   float64
	burst  float64
	script *redis.Script
	now    func() time.Time
}

// NewLimiter 创建限流器。rate 或 burst <= 0 时不限流。
//
// 参数:
//   - rdb: Redis 客户端
//   - prefix: 键前缀，为空时使用 "avnu:ratelimit:"
//   - rate: 每秒补充的令牌数
//   - burst: 桶容量
func NewLimiter(rdb *redis.Client, prefix string, rate, burst float64) *Limiter {
	if prefix == "" {
		prefix = "avnu:ratelimit:"
	}
	return &Limiter{
		rdb:    rdb,
		prefix: prefix,
		rate:   rate,
		burst:  burst,
		script: redis.NewScript(tokenBucketLua),
		now:    time.Now,
	}
}

// Enabled 是否实际限流。
func (l *Limiter) Enabled() bool {
	return l != nil && l.rdb != nil && l.rate > 0 && l.burst > 0
}

// Allow 为 client 消耗一个令牌。
//
// 返回值:
//   - time.Duration: 被拒绝时建议的等待时间
//   - error: 令牌不足时为 ErrRateLimited，Redis 故障时为包装后的错误
func (l *Limiter) Allow(ctx context.Context, client string) (time.Duration, error) {
	if !l.Enabled() {
		return 0, nil
	}
	res, err := l.script.Run(ctx, l.rdb, []string{l.prefix + client}, l.rate, l.burst, l.now().UnixMilli(), 1).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit eval: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) < 2 {
		return 0, fmt.Errorf("ratelimit invalid result")
	}
	if toInt64(values[0]) == 1 {
		return 0, nil
	}
	metrics.RateLimitRejectedTotal.Inc()
	return time.Duration(toInt64(values[1])) * time.Millisecond, ErrRateLimited
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if t == "" {
			return 0
		}
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
