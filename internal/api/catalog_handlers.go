package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"avnu/internal/catalog"
	"avnu/internal/model"
	"avnu/internal/pkg/metrics"
	"avnu/internal/search"

	"github.com/gin-gonic/gin"
)

const catalogVersionHeader = "X-Catalog-Version"

type catalogResponse struct {
	Version  string          `json:"version"`
	Brands   []model.Brand   `json:"brands"`
	Products []model.Product `json:"products"`
}

type brandResponse struct {
	Brand        model.Brand `json:"brand"`
	ProductCount int         `json:"productCount"`
}

type productResponse struct {
	Product      model.Product        `json:"product"`
	BrandName    string               `json:"brandName"`
	Category     *catalog.CategoryRef `json:"category,omitempty"`
	CategoryPath []string             `json:"categoryPath"`
}

// handleCatalog 返回完整目录，ETag 为目录指纹。
func (s *Server) handleCatalog(c *gin.Context) {
	etag := `"` + s.catalog.Fingerprint() + `"`
	c.Header(catalogVersionHeader, s.catalog.Fingerprint())
	c.Header("ETag", etag)
	if etagMatches(c.GetHeader("If-None-Match"), s.catalog.Fingerprint()) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, catalogResponse{
		Version:  s.catalog.Fingerprint(),
		Brands:   s.catalog.Brands(),
		Products: s.catalog.Products(),
	})
}

// etagMatches If-None-Match 是否命中当前版本，支持 "*"、弱校验 W/ 和逗号分隔的列表。
func etagMatches(header, version string) bool {
	if header == "" {
		return false
	}
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" {
			return true
		}
		tag = strings.TrimPrefix(tag, "W/")
		if strings.Trim(tag, `"`) == version {
			return true
		}
	}
	return false
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":      catalog.Categories(),
		"brandCategories": search.BrandCategories(s.catalog.Brands()),
		"priceBands":      s.catalog.Tables().PriceBands,
	})
}

func (s *Server) handleListBrands(c *gin.Context) {
	brands := search.Brands(s.catalog.Brands(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"brands": brands, "total": len(brands)})
}

func (s *Server) handleGetBrand(c *gin.Context) {
	brand, ok := s.catalog.Brand(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
		return
	}
	c.JSON(http.StatusOK, brandResponse{
		Brand:        brand,
		ProductCount: len(s.catalog.ProductsByBrand(brand.ID)),
	})
}

// handleBrandProducts 品牌页商品分页，不走模拟延迟。
func (s *Server) handleBrandProducts(c *gin.Context) {
	brandID := c.Param("id")
	if _, ok := s.catalog.Brand(brandID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
		return
	}
	page, pageSize := s.pageArgs(c)
	c.Header(catalogVersionHeader, s.catalog.Fingerprint())
	c.JSON(http.StatusOK, s.engine.Search("", search.Filters{BrandID: brandID}, page, pageSize))
}

// handleSearchProducts 商品检索。
//
// 检索前等待 search_delay；客户端在此期间断开或被新请求取代时放弃结果。
func (s *Server) handleSearchProducts(c *gin.Context) {
	filters := search.Filters{
		BrandID:     strings.TrimSpace(c.Query("brand")),
		Category:    strings.TrimSpace(c.Query("category")),
		Subcategory: strings.TrimSpace(c.Query("subcategory")),
		IsNew:       parseQueryBoolPtr(c, "is_new"),
		MinPrice:    parseQueryIntPtr(c, "min_price"),
		MaxPrice:    parseQueryIntPtr(c, "max_price"),
	}
	page, pageSize := s.pageArgs(c)

	start := time.Now()
	result, err := s.engine.SearchContext(c.Request.Context(), s.cfg.App.SearchDelay, c.Query("q"), filters, page, pageSize)
	if err != nil {
		metrics.SearchCanceledTotal.Inc()
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": "search canceled"})
		return
	}
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if result.Total == 0 {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchRequestsTotal.WithLabelValues("hit").Inc()
	}

	c.Header(catalogVersionHeader, s.catalog.Fingerprint())
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	p, ok := s.catalog.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	resp := productResponse{
		Product:      p,
		BrandName:    s.catalog.BrandName(p.BrandID),
		CategoryPath: []string{},
	}
	if ref, ok := catalog.MapProductCategory(p); ok {
		resp.Category = &ref
		resp.CategoryPath = catalog.CategoryPath(ref.CategoryID, ref.SubcategoryID, "")
	}
	c.Header(catalogVersionHeader, s.catalog.Fingerprint())
	c.JSON(http.StatusOK, resp)
}
