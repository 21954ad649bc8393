// Package search 在不可变目录上实现文本检索、结构化过滤与分页。
package search

import (
	"context"
	"strings"
	"time"

	"avnu/internal/catalog"
	"avnu/internal/model"
)

// Filters 结构化过滤条件，零值字段表示不过滤。
type Filters struct {
	BrandID     string
	Category    string
	Subcategory string
	IsNew       *bool
	MinPrice    *int // 闭区间
	MaxPrice    *int // 闭区间
}

// Page 一次查询的分页结果。
type Page struct {
	Items    []model.Product `json:"items"`
	Total    int             `json:"total"`
	HasMore  bool            `json:"hasMore"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// Engine 在构造时为每个商品预先计算小写的 haystack。
//
// Engine 本身没有可变状态，可被并发调用。
type Engine struct {
	products  []model.Product
	haystacks []string
}

// NewEngine 基于目录创建检索引擎。
func NewEngine(c *catalog.Catalog) *Engine {
	products := c.Products()
	haystacks := make([]string, len(products))
	for i, p := range products {
		haystacks[i] = haystack(p, c.BrandName(p.BrandID))
	}
	return &Engine{products: products, haystacks: haystacks}
}

// haystack 由名称、品牌名、类目、子类目和 leaf 拼成，不含描述。
func haystack(p model.Product, brandName string) string {
	joined := strings.Join([]string{p.Name, brandName, p.Category, p.Subcategory, p.Leaf}, " ")
	return strings.ToLower(strings.TrimSpace(joined))
}

// Search 执行一次查询。
//
// 先应用全部结构化过滤（AND），再对剩余商品做大小写不敏感的子串匹配。
// 结果保持目录顺序；page、pageSize 小于 1 时按 1 处理，越界页返回空 Items。
//
// 参数:
//
//	query: 自由文本，空串匹配全部
//	f: 结构化过滤条件
//	page: 页码，从 1 开始
//	pageSize: 每页条数
//
// 返回值:
//
//	Page: 当前页商品、过滤后总数以及是否还有下一页
func (e *Engine) Search(query string, f Filters, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	q := strings.ToLower(strings.TrimSpace(query))

	matched := make([]int, 0, len(e.products))
	for i := range e.products {
		if !f.match(e.products[i]) {
			continue
		}
		if q != "" && !strings.Contains(e.haystacks[i], q) {
			continue
		}
		matched = append(matched, i)
	}

	total := len(matched)
	start, end := bounds(page, pageSize, total)
	items := make([]model.Product, 0, end-start)
	for _, i := range matched[start:end] {
		p := e.products[i]
		p.Images = append([]string(nil), p.Images...)
		items = append(items, p)
	}

	return Page{
		Items:    items,
		Total:    total,
		HasMore:  end < total,
		Page:     page,
		PageSize: pageSize,
	}
}

// SearchContext 在等待 delay 之后执行 Search。
//
// ctx 先被取消时返回 ctx.Err()，不计算结果。delay <= 0 时立即执行。
func (e *Engine) SearchContext(ctx context.Context, delay time.Duration, query string, f Filters, page, pageSize int) (Page, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	return e.Search(query, f, page, pageSize), nil
}

// Len 可检索的商品数量。
func (e *Engine) Len() int {
	return len(e.products)
}

func (f Filters) match(p model.Product) bool {
	if f.BrandID != "" && p.BrandID != f.BrandID {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	if f.IsNew != nil && p.IsNew != *f.IsNew {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// bounds 计算 [start, end)，大页码时不会溢出。
func bounds(page, pageSize, total int) (int, int) {
	if (page-1) > total/pageSize {
		return total, total
	}
	start := (page - 1) * pageSize
	if start > total {
		return total, total
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}
	return start, end
}
