package catalog

import (
	"encoding/json"
	"fmt"

	"avnu/internal/model"

	"github.com/cespare/xxhash/v2"
)

// Catalog 是生成后的不可变目录句柄。
//
// 构造完成后不再修改，可被任意多个 goroutine 并发读取，无需加锁。
// 所有返回切片的方法都返回拷贝。
type Catalog struct {
	brands      []model.Brand
	products    []model.Product
	series      []Series
	tables      Tables
	brandByID   map[string]int
	productByID map[string]int
	byBrand     map[string][]int
	fingerprint string
}

// Build 运行生成器并建立索引。
func Build(brands []model.Brand, pool []string, tables Tables) *Catalog {
	products := Generate(brands, pool, tables)

	c := &Catalog{
		brands:      cloneBrands(brands),
		products:    products,
		series:      DetectSeries(pool),
		tables:      tables,
		brandByID:   make(map[string]int, len(brands)),
		productByID: make(map[string]int, len(products)),
		byBrand:     make(map[string][]int, len(brands)),
	}
	for i, b := range c.brands {
		c.brandByID[b.ID] = i
	}
	for i, p := range products {
		c.productByID[p.ID] = i
		c.byBrand[p.BrandID] = append(c.byBrand[p.BrandID], i)
	}
	c.fingerprint = computeFingerprint(products)
	return c
}

// Default 使用内置品牌、图片池和查找表构建目录。
func Default() *Catalog {
	return Build(DefaultBrands(), DefaultImagePool(), DefaultTables())
}

// Load 从可选的品牌文件构建目录，path 为空时使用内置品牌。
func Load(brandsPath string) (*Catalog, error) {
	brands, err := LoadBrands(brandsPath)
	if err != nil {
		return nil, err
	}
	return Build(brands, DefaultImagePool(), DefaultTables()), nil
}

// Brands 返回按输入顺序排列的品牌。
func (c *Catalog) Brands() []model.Brand {
	return cloneBrands(c.brands)
}

// Products 返回按生成顺序排列的全部商品。
func (c *Catalog) Products() []model.Product {
	out := make([]model.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// Len 商品总数。
func (c *Catalog) Len() int {
	return len(c.products)
}

// At 返回第 i 个商品（生成顺序）。
func (c *Catalog) At(i int) model.Product {
	return cloneProduct(c.products[i])
}

// Brand 按 ID 查找品牌。
func (c *Catalog) Brand(id string) (model.Brand, bool) {
	i, ok := c.brandByID[id]
	if !ok {
		return model.Brand{}, false
	}
	return cloneBrand(c.brands[i]), true
}

// BrandName 返回品牌名称，未知品牌返回空串。
func (c *Catalog) BrandName(id string) string {
	if i, ok := c.brandByID[id]; ok {
		return c.brands[i].Name
	}
	return ""
}

// Product 按 ID 查找商品。
func (c *Catalog) Product(id string) (model.Product, bool) {
	i, ok := c.productByID[id]
	if !ok {
		return model.Product{}, false
	}
	return cloneProduct(c.products[i]), true
}

// ProductsByBrand 返回某品牌的商品，保持生成顺序。
func (c *Catalog) ProductsByBrand(brandID string) []model.Product {
	idx := c.byBrand[brandID]
	out := make([]model.Product, 0, len(idx))
	for _, i := range idx {
		out = append(out, cloneProduct(c.products[i]))
	}
	return out
}

// Series 返回检测到的图片系列。
func (c *Catalog) Series() []Series {
	out := make([]Series, len(c.series))
	for i, s := range c.series {
		out[i] = Series{Key: s.Key, Images: append([]string(nil), s.Images...)}
	}
	return out
}

// Tables 返回构建目录所用的查找表。
func (c *Catalog) Tables() Tables {
	return c.tables
}

// Fingerprint 返回商品列表规范 JSON 的 xxhash64（16 位十六进制）。
//
// 输入不变时指纹不变，可用作 ETag 或跨机器比对生成结果。
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func computeFingerprint(products []model.Product) string {
	d := xxhash.New()
	// Product 只含可序列化字段，Encode 不会失败
	_ = json.NewEncoder(d).Encode(products)
	return fmt.Sprintf("%016x", d.Sum64())
}

func cloneProduct(p model.Product) model.Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

func cloneBrand(b model.Brand) model.Brand {
	b.Categories = append([]string(nil), b.Categories...)
	b.CarouselImages = append([]string(nil), b.CarouselImages...)
	return b
}

func cloneBrands(brands []model.Brand) []model.Brand {
	out := make([]model.Brand, len(brands))
	for i, b := range brands {
		out[i] = cloneBrand(b)
	}
	return out
}
