package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"avnu/internal/api/middleware"
	"avnu/internal/cart"
	"avnu/internal/model"
	"avnu/internal/pkg/metrics"
	"avnu/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	heartbeatInterval = 25 * time.Second
)

type cartResponse struct {
	Items   []model.CartItem `json:"items"`
	Summary cart.Summary     `json:"summary"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// updateCartLineRequest quantity 与 delta 二选一；delta 只接受 +1 / -1。
type updateCartLineRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

type setRatingRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
}

// storeError 将覆盖层错误映射为 HTTP 状态码。
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInvalidRating),
		errors.Is(err, store.ErrInvalidSettings):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidProfile):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		s.logger.Error("profile store failed",
			slog.String("profile_id", middleware.ProfileID(c)),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) cartView(items []model.CartItem) cartResponse {
	if items == nil {
		items = []model.CartItem{}
	}
	return cartResponse{Items: items, Summary: cart.Summarize(items, s.catalog)}
}

func (s *Server) handleGetCart(c *gin.Context) {
	items, err := s.store.Cart.Items(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(items))
}

// handleAddToCart 加入购物车。
//
// 带 Idempotency-Key 的重复请求在去重窗口内直接返回 {"status":"duplicate"}。
func (s *Server) handleAddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p, ok := s.catalog.Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	ctx := c.Request.Context()
	profileID := middleware.ProfileID(c)
	key := c.GetHeader(idempotencyHeader)
	dup, err := s.deduper.Claim(ctx, profileID, key)
	if err != nil {
		s.logger.Warn("idempotency check failed", slog.String("error", err.Error()))
	}
	if dup {
		metrics.IdempotentReplaysTotal.Inc()
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	items, err := s.store.Cart.Add(ctx, profileID, p.ID, p.BrandID, req.Quantity)
	if err != nil {
		// 写入失败时释放幂等键，允许客户端重试
		if key != "" {
			if relErr := s.deduper.Release(ctx, profileID, key); relErr != nil {
				s.logger.Warn("release idempotency key failed", slog.String("error", relErr.Error()))
			}
		}
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(items))
}

func (s *Server) handleClearCart(c *gin.Context) {
	if err := s.store.Cart.Clear(c.Request.Context(), middleware.ProfileID(c)); err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(nil))
}

func (s *Server) handleUpdateCartLine(c *gin.Context) {
	var req updateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	profileID := middleware.ProfileID(c)
	productID := c.Param("productId")

	var (
		items []model.CartItem
		err   error
	)
	switch {
	case req.Quantity != nil:
		items, err = s.store.Cart.UpdateQuantity(ctx, profileID, productID, *req.Quantity)
	case req.Delta != nil && *req.Delta == 1:
		items, err = s.store.Cart.Increment(ctx, profileID, productID)
	case req.Delta != nil && *req.Delta == -1:
		items, err = s.store.Cart.Decrement(ctx, profileID, productID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity or delta (+1/-1) required"})
		return
	}
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(items))
}

func (s *Server) handleRemoveCartLine(c *gin.Context) {
	items, err := s.store.Cart.Remove(c.Request.Context(), middleware.ProfileID(c), c.Param("productId"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(items))
}

// handleListFavorites 返回收藏 ID 与对应商品，目录中已不存在的 ID 只出现在 ids 中。
func (s *Server) handleListFavorites(c *gin.Context) {
	ids, err := s.store.Favorites.List(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		s.storeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.Product(id); ok {
			products = append(products, p)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids, "products": products})
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	productID := c.Param("productId")
	if _, ok := s.catalog.Product(productID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	fav, err := s.store.Favorites.Toggle(c.Request.Context(), middleware.ProfileID(c), productID)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "favorite": fav})
}

func (s *Server) handleListRatings(c *gin.Context) {
	ratings, err := s.store.Ratings.All(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		s.storeError(c, err)
		return
	}
	if ratings == nil {
		ratings = map[string]float64{}
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (s *Server) handleSetRating(c *gin.Context) {
	productID := c.Param("productId")
	if _, ok := s.catalog.Product(productID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	var req setRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rating, err := s.store.Ratings.Set(c.Request.Context(), middleware.ProfileID(c), productID, *req.Rating)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "rating": rating})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	settings, err := s.store.Settings.Get(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings, "states": store.USStates})
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var req model.ProfileSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	settings, err := s.store.Settings.Put(c.Request.Context(), middleware.ProfileID(c), req)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// handleEvents 以 SSE 推送当前 profile 的变更通知，其他标签页据此重新读取。
func (s *Server) handleEvents(c *gin.Context) {
	events, cancel := s.hub.Subscribe(middleware.ProfileID(c))
	defer cancel()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"catalog_version": s.catalog.Fingerprint()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("sync", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
