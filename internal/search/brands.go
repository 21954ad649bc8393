package search

import (
	"sort"
	"strings"

	"avnu/internal/model"
)

// Brands 按名称、标语、所在地或任一类目做大小写不敏感的子串匹配。
// 空白查询返回全部品牌，结果保持输入顺序。
func Brands(brands []model.Brand, query string) []model.Brand {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Brand, 0, len(brands))
	for _, b := range brands {
		if q == "" || brandMatches(b, q) {
			out = append(out, b)
		}
	}
	return out
}

func brandMatches(b model.Brand, q string) bool {
	if strings.Contains(strings.ToLower(b.Name), q) ||
		strings.Contains(strings.ToLower(b.Tagline), q) ||
		strings.Contains(strings.ToLower(b.Location), q) {
		return true
	}
	for _, c := range b.Categories {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// BrandCategories 返回所有品牌类目去重后的有序集合。
func BrandCategories(brands []model.Brand) []string {
	seen := make(map[string]struct{})
	for _, b := range brands {
		for _, c := range b.Categories {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
