// Package store 把每个匿名 profile 的购物车、收藏、评分和设置保存为 Redis 中的 JSON 文档。
//
// 文档只以稳定的商品 ID / 品牌 ID 为键，不依赖目录内容。每次写入后发布一条
// 变更通知，同一 profile 的其他会话据此重新读取。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"avnu/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidProfile  = errors.New("invalid profile id")
)

// Key 文档名，同时作为变更通知里的 key。
type Key string

const (
	KeyCart      Key = "avnu-cart"
	KeyFavorites Key = "avnu-favorites"
	KeyRatings   Key = "avnu-user-ratings"
	KeyProfile   Key = "avnu-profile"
)

// 各文档在 Redis 键中的后缀
var redisSuffix = map[Key]string{
	KeyCart:      "cart",
	KeyFavorites: "favorites",
	KeyRatings:   "ratings",
	KeyProfile:   "profile",
}

// 乐观锁冲突时的最大重试次数
const maxTxRetries = 8

// Publisher 变更通知出口，broadcast.Hub 实现了该接口。
type Publisher interface {
	Publish(ctx context.Context, profileID, key string) error
}

// Store 聚合四类文档存储。
type Store struct {
	Cart      *CartStore
	Favorites *FavoritesStore
	Ratings   *RatingsStore
	Settings  *SettingsStore
}

// New 创建存储。pub 可为 nil（不发送变更通知）。
func New(rdb *redis.Client, pub Publisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := base{rdb: rdb, pub: pub, logger: logger}
	return &Store{
		Cart:      &CartStore{base: b},
		Favorites: &FavoritesStore{base: b},
		Ratings:   &RatingsStore{base: b},
		Settings:  &SettingsStore{base: b},
	}
}

// DocumentKey 返回 profile 文档的 Redis 键。
func DocumentKey(profileID string, key Key) string {
	return fmt.Sprintf("avnu:profile:%s:%s", profileID, redisSuffix[key])
}

type base struct {
	rdb    *redis.Client
	pub    Publisher
	logger *slog.Logger
}

// load 读取文档，不存在时返回零值。
func load[T any](ctx context.Context, b base, profileID string, key Key) (T, error) {
	var v T
	if profileID == "" {
		return v, ErrInvalidProfile
	}
	raw, err := b.rdb.Get(ctx, DocumentKey(profileID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// update 在 WATCH 事务中执行读-改-写。
//
// fn 返回 false 表示文档未变化，此时不写入也不发通知。事务因并发写入失败时
// 重新读取并重放 fn，最终以最后一次成功提交为准。通知在提交之后发送，
// 发送失败只记日志，不影响已提交的写入。
func update[T any](ctx context.Context, b base, profileID string, key Key, fn func(*T) (bool, error)) (T, error) {
	var result T
	if profileID == "" {
		return result, ErrInvalidProfile
	}
	redisKey := DocumentKey(profileID, key)
	var changed bool

	txf := func(tx *redis.Tx) error {
		var v T
		raw, err := tx.Get(ctx, redisKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}

		changed, err = fn(&v)
		if err != nil {
			return err
		}
		result = v
		if !changed {
			return nil
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, data, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = b.rdb.Watch(ctx, txf, redisKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		var zero T
		return zero, err
	}

	if changed {
		metrics.OverlayWritesTotal.WithLabelValues(redisSuffix[key]).Inc()
		b.notify(ctx, profileID, key)
	}
	return result, nil
}

func (b base) notify(ctx context.Context, profileID string, key Key) {
	if b.pub == nil {
		return
	}
	if err := b.pub.Publish(ctx, profileID, string(key)); err != nil {
		b.logger.Warn("publish change failed",
			slog.String("profile_id", profileID),
			slog.String("key", string(key)),
			slog.String("error", err.Error()))
	}
}
