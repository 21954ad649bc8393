package search

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"avnu/internal/catalog"
	"avnu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSearch_BrandFilter(t *testing.T) {
	e := NewEngine(catalog.Default())

	res := e.Search("", Filters{BrandID: "ashwood-atelier"}, 1, 12)
	assert.Len(t, res.Items, 6)
	assert.Equal(t, 6, res.Total)
	assert.False(t, res.HasMore)
}

func TestSearch_CategoryAndPriceRange(t *testing.T) {
	c := catalog.Default()
	e := NewEngine(c)

	f := Filters{Category: "Beauty", MinPrice: ptr(20), MaxPrice: ptr(50)}
	res := e.Search("", f, 1, 6)

	var want []string
	for _, p := range c.Products() {
		if p.Category == "Beauty" && p.Price >= 20 && p.Price <= 50 {
			want = append(want, p.ID)
		}
	}
	require.Equal(t, len(want), res.Total)
	assert.Equal(t, len(want) > 6, res.HasMore)
	require.LessOrEqual(t, len(res.Items), 6)
	for i, p := range res.Items {
		assert.Equal(t, want[i], p.ID)
		assert.Equal(t, "Beauty", p.Category)
		assert.GreaterOrEqual(t, p.Price, 20)
		assert.LessOrEqual(t, p.Price, 50)
	}
}

// 描述不参与匹配；若将来要把描述纳入检索，需要同时改这里。
func TestSearch_DescriptionNotSearched(t *testing.T) {
	tables := catalog.DefaultTables()
	tables.SeriesCategories = nil
	tables.SeriesNames = nil
	tables.Names = map[string][]string{"Home & Living": {"Hand-thrown Vase"}}
	tables.Subcategories = map[string][]string{"Home & Living": {"Decor"}}
	tables.Leaves = nil
	tables.Descriptions = map[string][]string{
		"Home & Living": {"Glazed ceramic details, soft edges, and a finish that looks better with time."},
	}
	brands := []model.Brand{{ID: "studio", Name: "Studio", Categories: []string{"Home & Living"}}}
	e := NewEngine(catalog.Build(brands, nil, tables))

	require.Positive(t, e.Len())
	res := e.Search("ceramic", Filters{}, 1, 12)
	assert.Zero(t, res.Total, "description text must not be matched")

	res = e.Search("  VASE ", Filters{}, 1, 100)
	assert.Equal(t, e.Len(), res.Total)
}

func TestSearch_MatchesBrandCategoryAndLeaf(t *testing.T) {
	c := catalog.Default()
	e := NewEngine(c)

	res := e.Search("ashwood", Filters{}, 1, 200)
	assert.Equal(t, 6, res.Total)

	var leafy model.Product
	for _, p := range c.Products() {
		if p.Leaf != "" {
			leafy = p
			break
		}
	}
	require.NotEmpty(t, leafy.ID)
	res = e.Search(strings.ToUpper(leafy.Leaf), Filters{BrandID: leafy.BrandID}, 1, 200)
	ids := map[string]bool{}
	for _, p := range res.Items {
		ids[p.ID] = true
	}
	assert.True(t, ids[leafy.ID])
}

func TestSearch_Conjunction(t *testing.T) {
	c := catalog.Default()
	e := NewEngine(c)

	queries := []string{"", "essential", "oak", "wool", "home", "  TEA  ", "zzz-no-match"}
	filters := []Filters{
		{},
		{Category: "Home & Living"},
		{Category: "Apparel", Subcategory: "Footwear"},
		{IsNew: ptr(true)},
		{IsNew: ptr(false), MaxPrice: ptr(40)},
		{BrandID: "kiln-and-co", MinPrice: ptr(30)},
		{MinPrice: ptr(60), MaxPrice: ptr(30)},
	}

	for _, q := range queries {
		for _, f := range filters {
			res := e.Search(q, f, 1, math.MaxInt)

			var want []string
			needle := strings.ToLower(strings.TrimSpace(q))
			for _, p := range c.Products() {
				if !passesFilters(p, f) {
					continue
				}
				hay := strings.ToLower(strings.Join([]string{p.Name, c.BrandName(p.BrandID), p.Category, p.Subcategory, p.Leaf}, " "))
				if needle != "" && !strings.Contains(hay, needle) {
					continue
				}
				want = append(want, p.ID)
			}

			got := make([]string, 0, len(res.Items))
			for _, p := range res.Items {
				got = append(got, p.ID)
			}
			assert.Equal(t, len(want), res.Total, "q=%q f=%+v", q, f)
			if len(want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, want, got, "q=%q f=%+v", q, f)
			}
		}
	}
}

// passesFilters 独立于 Filters.match 的过滤判断。
func passesFilters(p model.Product, f Filters) bool {
	brandOK := f.BrandID == "" || p.BrandID == f.BrandID
	categoryOK := f.Category == "" || p.Category == f.Category
	subOK := f.Subcategory == "" || p.Subcategory == f.Subcategory
	newOK := f.IsNew == nil || p.IsNew == *f.IsNew
	minOK := f.MinPrice == nil || p.Price >= *f.MinPrice
	maxOK := f.MaxPrice == nil || p.Price <= *f.MaxPrice
	return brandOK && categoryOK && subOK && newOK && minOK && maxOK
}

func TestSearch_PaginationConcatenates(t *testing.T) {
	e := NewEngine(catalog.Default())
	full := e.Search("", Filters{}, 1, math.MaxInt)

	for _, size := range []int{1, 5, 7, 12, 48, 500} {
		var ids []string
		seen := map[string]bool{}
		for page := 1; ; page++ {
			res := e.Search("", Filters{}, page, size)
			require.Equal(t, full.Total, res.Total)
			for _, p := range res.Items {
				require.False(t, seen[p.ID], "duplicate %s at size %d", p.ID, size)
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
			if !res.HasMore {
				break
			}
			require.Less(t, page, full.Total+1)
		}
		require.Len(t, ids, full.Total)
		for i, p := range full.Items {
			assert.Equal(t, p.ID, ids[i])
		}
	}
}

func TestSearch_CoercesPageArguments(t *testing.T) {
	e := NewEngine(catalog.Default())

	res := e.Search("", Filters{}, 0, 0)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.PageSize)
	assert.Len(t, res.Items, 1)
	assert.True(t, res.HasMore)

	res = e.Search("", Filters{}, -3, -1)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.PageSize)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "prod-001", res.Items[0].ID)
	assert.True(t, res.HasMore)

	res = e.Search("", Filters{}, math.MinInt, math.MinInt)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.PageSize)
	assert.Len(t, res.Items, 1)

	res = e.Search("", Filters{}, 1000, 12)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasMore)
	assert.Equal(t, e.Len(), res.Total)

	res = e.Search("", Filters{}, math.MaxInt, math.MaxInt)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasMore)
}

func TestSearch_ItemsAreCopies(t *testing.T) {
	e := NewEngine(catalog.Default())
	res := e.Search("", Filters{}, 1, 1)
	res.Items[0].Images[0] = "mutated"

	again := e.Search("", Filters{}, 1, 1)
	assert.NotEqual(t, "mutated", again.Items[0].Images[0])
}

func TestSearchContext(t *testing.T) {
	e := NewEngine(catalog.Default())

	res, err := e.SearchContext(context.Background(), time.Millisecond, "", Filters{BrandID: "ashwood-atelier"}, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, e.Search("", Filters{BrandID: "ashwood-atelier"}, 1, 12), res)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.SearchContext(ctx, time.Hour, "", Filters{}, 1, 12)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = e.SearchContext(ctx, 0, "", Filters{}, 1, 12)
	assert.ErrorIs(t, err, context.Canceled)
}
