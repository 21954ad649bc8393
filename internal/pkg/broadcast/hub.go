// Package broadcast 通过 Redis pub/sub 把 profile 文档的变更通知分发给本进程内的监听者。
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"avnu/internal/pkg/metrics"
	"avnu/internal/pkg/queue"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "avnu-storage-sync"

	listenerBuffer = 8
)

// Event 某个 profile 的某个文档发生了变化。
type Event struct {
	ProfileID string `json:"profile_id"`
	Key       string `json:"key"`
}

type delivery struct {
	profileID  string
	listenerID uint64
	event      Event
}

// Hub 订阅同步频道，并按 profile 把事件投递给已注册的监听者。
//
// 投递经过有界 worker 池；池满或监听者缓冲已满时丢弃该次投递。
// 监听者只需要知道"某个 key 变了"，随后自行重新读取文档。
type Hub struct {
	rdb     *redis.Client
	channel string
	logger  *slog.Logger
	pool    *queue.Pool[delivery]

	mu        sync.RWMutex
	listeners map[string]map[uint64]chan Event
	nextID    uint64

	ready     chan struct{}
	readyOnce sync.Once
}

// NewHub 创建 Hub，需调用 Run 后才开始接收事件。
//
// 参数:
//
//	rdb: Redis 客户端
//	channel: 同步频道名，为空时使用 DefaultChannel
//	workers: 投递 worker 数量
//	capacity: 投递队列容量
func NewHub(rdb *redis.Client, logger *slog.Logger, channel string, workers, capacity int) *Hub {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Hub{
		rdb:       rdb,
		channel:   channel,
		logger:    logger,
		listeners: make(map[string]map[uint64]chan Event),
		ready:     make(chan struct{}),
	}
	h.pool = queue.New(logger, workers, capacity, h.deliver)
	h.pool.OnDrop(func(delivery) { metrics.SyncEventsDroppedTotal.Inc() })
	return h
}

// Publish 发布一条变更通知。
func (h *Hub) Publish(ctx context.Context, profileID, key string) error {
	data, err := json.Marshal(Event{ProfileID: profileID, Key: key})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := h.rdb.Publish(ctx, h.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	metrics.SyncEventsPublishedTotal.Inc()
	return nil
}

// Subscribe 为 profile 注册监听者。
//
// 返回值:
//
//	<-chan Event: 事件通道，cancel 后被关闭
//	func(): 取消注册，可重复调用
func (h *Hub) Subscribe(profileID string) (<-chan Event, func()) {
	ch := make(chan Event, listenerBuffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.listeners[profileID] == nil {
		h.listeners[profileID] = make(map[uint64]chan Event)
	}
	h.listeners[profileID][id] = ch
	h.mu.Unlock()
	metrics.SyncListeners.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners[profileID], id)
			if len(h.listeners[profileID]) == 0 {
				delete(h.listeners, profileID)
			}
			close(ch)
			h.mu.Unlock()
			metrics.SyncListeners.Dec()
		})
	}
	return ch, cancel
}

// Ready 在频道订阅确认后关闭。
func (h *Hub) Ready() <-chan struct{} {
	return h.ready
}

// Run 订阅同步频道并分发事件，直到 ctx 取消。
func (h *Hub) Run(ctx context.Context) error {
	pubsub := h.rdb.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", h.channel, err)
	}
	h.readyOnce.Do(func() { close(h.ready) })
	h.logger.Info("sync hub subscribed", slog.String("channel", h.channel))

	h.pool.Start(ctx)
	defer func() {
		if err := h.pool.Shutdown(2 * time.Second); err != nil {
			h.logger.Warn("sync hub pool shutdown", slog.String("error", err.Error()))
		}
	}()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("sync channel closed")
			}
			h.dispatch(msg.Payload)
		}
	}
}

func (h *Hub) dispatch(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil || ev.ProfileID == "" {
		h.logger.Warn("invalid sync event", slog.String("payload", payload))
		return
	}

	h.mu.RLock()
	ids := make([]uint64, 0, len(h.listeners[ev.ProfileID]))
	for id := range h.listeners[ev.ProfileID] {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		// 池满时 OnDrop 已计数
		_ = h.pool.Submit(delivery{profileID: ev.ProfileID, listenerID: id, event: ev})
	}
}

// deliver 非阻塞地写入监听者通道；监听者已注销时忽略。
func (h *Hub) deliver(_ context.Context, d delivery) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.listeners[d.profileID][d.listenerID]
	if !ok {
		return nil
	}
	select {
	case ch <- d.event:
		metrics.SyncEventsDeliveredTotal.Inc()
	default:
		metrics.SyncEventsDroppedTotal.Inc()
	}
	return nil
}
