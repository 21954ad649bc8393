package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"avnu/internal/api/middleware"
	"avnu/internal/api/profile"
	"avnu/internal/catalog"
	"avnu/internal/config"
	"avnu/internal/pkg/broadcast"
	"avnu/internal/pkg/dedup"
	"avnu/internal/pkg/metrics"
	"avnu/internal/pkg/ratelimit"
	"avnu/internal/search"
	"avnu/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 目录和检索引擎在启动时构建一次，之后只读；profile 覆盖层与变更通知走 Redis。
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	rdb     *redis.Client
	router  *gin.Engine
	catalog *catalog.Catalog
	engine  *search.Engine
	store   *store.Store
	hub     *broadcast.Hub
	limiter *ratelimit.Limiter
	deduper *dedup.Deduplicator
	tokens  *profile.Issuer
	profile *profile.Handler
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 Redis
// 2. 构建检索引擎、覆盖层存储和变更通知 hub
// 3. 初始化 Gin 路由引擎
//
// 参数:
//
//	ctx: 上下文
//	cfg: 配置对象
//	logger: 日志记录器
//	cat: 已构建的目录
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, cat *catalog.Catalog) (*Server, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	hub := broadcast.NewHub(rdb, logger, cfg.Redis.SyncChannel, cfg.App.EventWorkers, cfg.App.EventQueueCapacity)
	tokens := profile.NewIssuer(cfg.Security.ProfileSecret, cfg.Security.ProfileTTL)

	// 初始化 Prometheus 指标
	metrics.InitMetrics()
	metrics.CatalogProducts.Set(float64(cat.Len()))
	metrics.CatalogBrands.Set(float64(len(cat.Brands())))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		rdb:     rdb,
		router:  r,
		catalog: cat,
		engine:  search.NewEngine(cat),
		store:   store.New(rdb, hub, logger),
		hub:     hub,
		limiter: ratelimit.NewLimiter(rdb, "", cfg.App.RateLimit, cfg.App.RateBurst),
		deduper: dedup.NewDeduplicator(rdb, cfg.App.IdempotencyWindow),
		tokens:  tokens,
		profile: profile.NewHandler(tokens, logger),
	}
	s.registerRoutes()
	return s, nil
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", middleware.RequestIDHeader},
		ExposeHeaders: []string{catalogVersionHeader, "Retry-After", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowOrigins
	}
	return cc
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// StartSync 启动变更通知 hub，直到 ctx 取消。
func (s *Server) StartSync(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("PANIC in sync hub", slog.Any("panic", r))
			}
		}()
		if err := s.hub.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("sync hub stopped", slog.String("error", err.Error()))
		}
	}()
}

// Close 关闭缓存连接。
func (s *Server) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	// Prometheus metrics 端点
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	public := s.router.Group("/")
	public.Use(middleware.RateLimit(s.limiter, s.logger))
	public.GET("/catalog", s.handleCatalog)
	public.GET("/categories", s.handleCategories)
	public.GET("/brands", s.handleListBrands)
	public.GET("/brands/:id", s.handleGetBrand)
	public.GET("/brands/:id/products", s.handleBrandProducts)
	public.GET("/products", s.handleSearchProducts)
	public.GET("/products/:id", s.handleGetProduct)
	public.POST("/profiles", s.profile.Create)

	me := s.router.Group("/me")
	me.Use(middleware.ProfileMiddleware(s.tokens))
	me.GET("/cart", s.handleGetCart)
	me.POST("/cart", s.handleAddToCart)
	me.DELETE("/cart", s.handleClearCart)
	me.PATCH("/cart/:productId", s.handleUpdateCartLine)
	me.DELETE("/cart/:productId", s.handleRemoveCartLine)
	me.GET("/favorites", s.handleListFavorites)
	me.POST("/favorites/:productId/toggle", s.handleToggleFavorite)
	me.GET("/ratings", s.handleListRatings)
	me.PUT("/ratings/:productId", s.handleSetRating)
	me.GET("/settings", s.handleGetSettings)
	me.PUT("/settings", s.handlePutSettings)
	me.GET("/events", s.handleEvents)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog_version": s.catalog.Fingerprint()})
}

// parseQueryInt 辅助函数：解析查询参数中的整数。
//
// 参数:
//
//	c: Gin 上下文
//	key: 参数名
//	def: 默认值
//
// 返回值:
//
//	int: 解析后的整数或默认值
func parseQueryInt(c *gin.Context, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	iv, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return iv
}

// parseQueryIntPtr 解析可选整数，缺失或非法时返回 nil。
func parseQueryIntPtr(c *gin.Context, key string) *int {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	iv, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &iv
}

// parseQueryBoolPtr 解析可选布尔值，缺失或非法时返回 nil。
func parseQueryBoolPtr(c *gin.Context, key string) *bool {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	bv, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &bv
}

// pageArgs 读取 page / page_size，page_size 不超过 max_page_size。
func (s *Server) pageArgs(c *gin.Context) (int, int) {
	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", s.cfg.App.DefaultPageSize)
	if limit := s.cfg.App.MaxPageSize; limit > 0 && pageSize > limit {
		pageSize = limit
	}
	return page, pageSize
}
