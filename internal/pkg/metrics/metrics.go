// Package metrics 定义服务暴露的 Prometheus 指标。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SearchRequestsTotal 商品检索次数，按结果是否为空区分。
	SearchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "avnu_search_requests_total",
		Help: "Total number of product searches.",
	}, []string{"result"})

	// SearchDuration 检索耗时（含模拟延迟）。
	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "avnu_search_duration_seconds",
		Help:    "Product search latency including the simulated delay.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// SearchCanceledTotal 在延迟期间被取消的检索。
	SearchCanceledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_search_canceled_total",
		Help: "Searches abandoned before the simulated delay elapsed.",
	})

	CatalogProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "avnu_catalog_products",
		Help: "Number of products in the generated catalog.",
	})

	CatalogBrands = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "avnu_catalog_brands",
		Help: "Number of brands in the catalog.",
	})

	// OverlayWritesTotal 按存储（cart/favorites/ratings/profile）统计写入。
	OverlayWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "avnu_overlay_writes_total",
		Help: "Writes to per-profile overlay documents.",
	}, []string{"store"})

	SyncEventsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_sync_events_published_total",
		Help: "Change events published on the sync channel.",
	})

	SyncEventsDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_sync_events_delivered_total",
		Help: "Change events delivered to local listeners.",
	})

	// SyncEventsDroppedTotal 投递队列已满或监听者过慢导致的丢弃。
	SyncEventsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_sync_events_dropped_total",
		Help: "Change events dropped because the delivery queue or a listener was full.",
	})

	SyncListeners = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "avnu_sync_listeners",
		Help: "Currently registered change listeners.",
	})

	RateLimitRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_ratelimit_rejected_total",
		Help: "Requests rejected by the rate limiter.",
	})

	IdempotentReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_idempotent_replays_total",
		Help: "Cart writes skipped because the idempotency key was already claimed.",
	})

	ProfilesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "avnu_profiles_issued_total",
		Help: "Anonymous profile tokens issued.",
	})
)

var initOnce sync.Once

// InitMetrics 把全部指标注册到默认注册表，重复调用无副作用。
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchCanceledTotal,
			CatalogProducts,
			CatalogBrands,
			OverlayWritesTotal,
			SyncEventsPublishedTotal,
			SyncEventsDeliveredTotal,
			SyncEventsDroppedTotal,
			SyncListeners,
			RateLimitRejectedTotal,
			IdempotentReplaysTotal,
			ProfilesIssuedTotal,
		)
	})
}
