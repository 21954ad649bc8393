// Package queue 提供有界缓冲 + 固定 worker 的泛型投递池。
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)

// Handler 处理单个元素。
type Handler[T any] func(ctx context.Context, item T) error

// Pool 把元素分发给固定数量的 worker 处理。
//
// Submit 永不阻塞：缓冲区满时直接丢弃并回调 onDrop。
type Pool[T any] struct {
	logger  *slog.Logger
	workers int
	items   chan T
	handle  Handler[T]
	onDrop  func(T)

	// 保护 closed 与 items 的关闭，防止 Submit 向已关闭通道写入
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	stats poolStats
}

type poolStats struct {
	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
	panics    atomic.Int64
}

// Stats 统计快照。
type Stats struct {
	Submitted int64
	Processed int64
	Failed    int64
	Dropped   int64
	Panics    int64
}

// New 创建投递池。
//
// 参数:
//   - logger: 日志记录器
//   - workers: worker 数量（至少为 1）
//   - capacity: 缓冲容量（至少为 1）
//   - handle: 元素处理函数
//
// 返回值:
//   - *Pool[T]: 投递池，需调用 Start 后才会消费
func New[T any](logger *slog.Logger, workers, capacity int, handle Handler[T]) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool[T]{
		logger:  logger,
		workers: workers,
		items:   make(chan T, capacity),
		handle:  handle,
	}
}

// OnDrop 设置丢弃回调，必须在 Start 前调用。
func (p *Pool[T]) OnDrop(fn func(T)) {
	p.onDrop = fn
}

// Start 启动 worker，直到 ctx 取消或 Shutdown。
func (p *Pool[T]) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool[T]) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("delivery worker stopped", slog.Int("worker_id", id))
			return
		case item, ok := <-p.items:
			if !ok {
				return
			}
			p.run(ctx, item, id)
		}
	}
}

func (p *Pool[T]) run(ctx context.Context, item T, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.panics.Add(1)
			p.logger.Error("delivery panic recovered",
				slog.Int("worker_id", workerID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	err := p.handle(ctx, item)
	p.stats.processed.Add(1)
	if err != nil {
		p.stats.failed.Add(1)
		p.logger.Warn("delivery failed",
			slog.Int("worker_id", workerID),
			slog.String("error", err.Error()))
	}
}

// Submit 非阻塞提交。
//
// 返回值:
//   - error: 已关闭返回 ErrClosed，缓冲区满返回 ErrFull
func (p *Pool[T]) Submit(item T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.items <- item:
		p.stats.submitted.Add(1)
		return nil
	default:
		p.stats.dropped.Add(1)
		if p.onDrop != nil {
			p.onDrop(item)
		}
		return ErrFull
	}
}

// Shutdown 拒绝新元素，关闭通道并等待 worker 处理完缓冲中的元素。
// 超时返回错误，worker 仍会在后台退出。
func (p *Pool[T]) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	close(p.items)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %s", timeout)
	}
}

// Stats 返回统计快照。
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Submitted: p.stats.submitted.Load(),
		Processed: p.stats.processed.Load(),
		Failed:    p.stats.failed.Load(),
		Dropped:   p.stats.dropped.Load(),
		Panics:    p.stats.panics.Load(),
	}
}

// Len 缓冲中待处理的数量。
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Cap 缓冲容量。
func (p *Pool[T]) Cap() int {
	return cap(p.items)
}

func (p *Pool[T]) String() string {
	s := p.Stats()
	return fmt.Sprintf("Pool[workers=%d, capacity=%d, pending=%d, submitted=%d, processed=%d, failed=%d, dropped=%d, panics=%d]",
		p.workers, p.Cap(), p.Len(), s.Submitted, s.Processed, s.Failed, s.Dropped, s.Panics)
}
