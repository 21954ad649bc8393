package catalog

import (
	"fmt"
	"math"

	"avnu/internal/model"
)

// 各派生属性使用的种子偏移，与 running index 相加后传给 prng/pick。
const (
	seedImages      = 3
	seedRating      = 1
	seedPrice       = 10
	seedIsNew       = 7
	seedRatingCount = 200
	seedDescription = 1000
	seedLeafBrand   = 11 // leaf 种子 = index + brandIndex*11
	seedNameBrand   = 3  // 名称种子 = i + brandIndex*3
)

// Generate 从品牌列表、图片池和查找表确定性地派生出全部商品。
//
// 它是纯函数：不读取时间、不使用外部熵，相同输入两次调用得到逐元素相同的结果。
// 任何查找失败都回退到 Tables 中的默认值，不会报错。
//
// 参数:
//
//	brands: 有序品牌列表（顺序决定商品 ID）
//	pool: 有序图片池
//	tables: 静态查找表
//
// 返回值:
//
//	[]model.Product: 按生成顺序排列的商品
func Generate(brands []model.Brand, pool []string, tables Tables) []model.Product {
	series := DetectSeries(pool)
	products := make([]model.Product, 0, len(brands)*(tables.ProductsPerBrand+1))

	index := 0
	for brandIndex, brand := range brands {
		count := tables.ProductsPerBrand
		if brandIndex < tables.BonusBrands {
			count++
		}

		for i := 0; i < count; i++ {
			defaultCategory := ""
			if len(brand.Categories) > 0 {
				defaultCategory = pick(brand.Categories, i)
			}
			defaultSubcategory := tables.DefaultSubcategory
			if subs := tables.Subcategories[defaultCategory]; len(subs) > 0 {
				defaultSubcategory = pick(subs, i+brandIndex)
			}

			seriesKey, images := productImages(series, pool, index+seedImages)

			category, subcategory := defaultCategory, defaultSubcategory
			if override, ok := tables.SeriesCategories[seriesKey]; ok {
				category, subcategory = override.Category, override.Subcategory
			}

			baseName := tables.DefaultName
			if names := tables.Names[category]; len(names) > 0 {
				baseName = pick(names, i+brandIndex*seedNameBrand)
			}
			if names := tables.SeriesNames[seriesKey]; len(names) > 0 {
				baseName = pick(names, i+brandIndex*seedNameBrand)
			}

			leaf := productLeaf(tables, category, index+brandIndex*seedLeafBrand)
			name := baseName
			if leaf != "" {
				name = baseName + tables.LeafSeparator + leaf
			}

			products = append(products, model.Product{
				ID:          productID(tables, index),
				BrandID:     brand.ID,
				Name:        name,
				Price:       productPrice(tables.PriceBandFor(category), index+seedPrice),
				Rating:      productRating(index + seedRating),
				RatingCount: tables.MinRatingCount + int(math.Floor(prng(index+seedRatingCount)*1500)),
				Category:    category,
				Subcategory: subcategory,
				Leaf:        leaf,
				Images:      images,
				IsNew:       prng(index+seedIsNew) > tables.NewThreshold,
				Description: productDescription(tables, category, index+seedDescription),
			})
			index++
		}
	}
	return products
}

func productID(tables Tables, index int) string {
	return fmt.Sprintf("%s%0*d", tables.IDPrefix, tables.IDWidth, index+1)
}

// productPrice: min + (max-min)*r，四舍五入到最近的偶数并夹在区间内。
func productPrice(band PriceBand, seed int) int {
	lo, hi := float64(band.Min), float64(band.Max)
	raw := lo + (hi-lo)*prng(seed)
	rounded := math.Round(raw/2) * 2
	return int(clamp(rounded, lo, hi))
}

// productRating: 3.2 + r*1.8，取最近的 0.5 并夹在 [0,5]。
func productRating(seed int) float64 {
	raw := 3.2 + prng(seed)*1.8
	return clamp(math.Round(raw*2)/2, 0, 5)
}

func productLeaf(tables Tables, category string, seed int) string {
	options := tables.Leaves[category]
	if len(options) == 0 {
		return ""
	}
	if prng(seed) > tables.LeafThreshold {
		return pick(options, seed)
	}
	return ""
}

func productDescription(tables Tables, category string, seed int) string {
	options := tables.Descriptions[category]
	if len(options) == 0 {
		return tables.DefaultDescription
	}
	return pick(options, seed)
}

// productImages 选出 2-4 张图片。
//
// 先在 seed 选中的系列内从 seed mod len 处向前环绕取图；系列不够时，
// 从全局图片池的 (seed*7) mod len 处继续取，跳过已选图片。
// 返回所选系列的键（图片池为空时为空串）。
func productImages(series []Series, pool []string, seed int) (string, []string) {
	count := 2 + mod(seed, 3)
	if len(pool) == 0 {
		return "", []string{}
	}

	var key string
	candidates := pool
	if len(series) > 0 {
		s := pick(series, seed)
		key, candidates = s.Key, s.Images
	}

	images := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	add := func(img string) {
		if _, dup := seen[img]; dup {
			return
		}
		seen[img] = struct{}{}
		images = append(images, img)
	}

	start := mod(seed, len(candidates))
	for i := 0; i < count; i++ {
		add(candidates[(start+i)%len(candidates)])
	}

	if len(images) < count {
		fallback := mod(seed*7, len(pool))
		for i := 0; len(images) < count && i < len(pool); i++ {
			add(pool[(fallback+i)%len(pool)])
		}
	}
	return key, images
}
