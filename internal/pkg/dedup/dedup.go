// Package dedup 基于 Redis SETNX 的幂等键占用。
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "avnu:idempotency:"

// Deduplicator 在时间窗口内记录已处理过的幂等键。
type Deduplicator struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDeduplicator ttl <= 0 时使用 10 分钟窗口。
func NewDeduplicator(rdb *redis.Client, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Deduplicator{
		rdb: rdb,
		ttl: ttl,
	}
}

// Claim 尝试占用 scope 下的幂等键。
//
// 参数:
//
//	scope: 作用域（如 profile ID），不同作用域的同名键互不影响
//	key: 客户端提供的幂等键，为空时不做去重
//
// 返回值:
//
//	bool: true 表示该键在窗口内已被占用（重复请求）
//	error: Redis 错误
func (d *Deduplicator) Claim(ctx context.Context, scope, key string) (bool, error) {
	if d == nil || d.rdb == nil || key == "" {
		return false, nil
	}
	ok, err := d.rdb.SetNX(ctx, claimKey(scope, key), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup setnx: %w", err)
	}
	return !ok, nil
}

// Release 释放占用，用于请求处理失败后允许客户端重试。
func (d *Deduplicator) Release(ctx context.Context, scope, key string) error {
	if d == nil || d.rdb == nil || key == "" {
		return nil
	}
	if err := d.rdb.Del(ctx, claimKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("dedup del: %w", err)
	}
	return nil
}

func claimKey(scope, key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + scope + ":" + hex.EncodeToString(sum[:])
}
