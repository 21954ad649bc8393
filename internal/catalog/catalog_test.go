package catalog

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"avnu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(DefaultBrands(), DefaultImagePool(), DefaultTables())
	second := Generate(DefaultBrands(), DefaultImagePool(), DefaultTables())

	require.Equal(t, first, second)
	assert.Equal(t, Default().Fingerprint(), Default().Fingerprint())
}

func TestGenerate_CountsAndIDs(t *testing.T) {
	brands := DefaultBrands()
	tables := DefaultTables()
	products := Generate(brands, DefaultImagePool(), tables)

	want := 0
	for i := range brands {
		want += tables.ProductsPerBrand
		if i < tables.BonusBrands {
			want++
		}
	}
	require.Len(t, products, want)

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		assert.Equal(t, fmt.Sprintf("prod-%03d", i+1), p.ID)
		_, dup := seen[p.ID]
		assert.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestGenerate_ReferentialIntegrity(t *testing.T) {
	c := Default()
	for _, p := range c.Products() {
		_, ok := c.Brand(p.BrandID)
		assert.True(t, ok, "product %s references unknown brand %s", p.ID, p.BrandID)
	}
}

func TestGenerate_PriceWithinBand(t *testing.T) {
	tables := DefaultTables()
	for _, p := range Generate(DefaultBrands(), DefaultImagePool(), tables) {
		band := tables.PriceBandFor(p.Category)
		assert.GreaterOrEqual(t, p.Price, band.Min, p.ID)
		assert.LessOrEqual(t, p.Price, band.Max, p.ID)
		assert.Zero(t, p.Price%2, "price %d of %s is not even", p.Price, p.ID)
	}
}

func TestGenerate_RatingDomain(t *testing.T) {
	for _, p := range Default().Products() {
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.Equal(t, 0.0, math.Mod(p.Rating*2, 1), "rating %.2f of %s", p.Rating, p.ID)
		assert.GreaterOrEqual(t, p.RatingCount, 18)
	}
}

func TestGenerate_ImageSeriesCohesion(t *testing.T) {
	pool := DefaultImagePool()
	series := DetectSeries(pool)
	products := Generate(DefaultBrands(), pool, DefaultTables())

	for i, p := range products {
		require.NotEmpty(t, p.Images, p.ID)
		assert.LessOrEqual(t, len(p.Images), 4)

		uniq := map[string]struct{}{}
		for _, img := range p.Images {
			uniq[img] = struct{}{}
		}
		assert.Len(t, uniq, len(p.Images), "duplicate image in %s", p.ID)

		seed := i + seedImages
		want := 2 + seed%3
		assert.Len(t, p.Images, want, p.ID)

		assigned := series[seed%len(series)]
		if len(assigned.Images) >= want {
			for _, img := range p.Images {
				assert.Equal(t, assigned.Key, SeriesKey(img), "%s image %s outside series", p.ID, img)
			}
		}
	}
}

func TestGenerate_SeriesOverridesCategory(t *testing.T) {
	tables := DefaultTables()
	for _, p := range Default().Products() {
		key := SeriesKey(p.Images[0])
		if override, ok := tables.SeriesCategories[key]; ok {
			assert.Equal(t, override.Category, p.Category, p.ID)
			assert.Equal(t, override.Subcategory, p.Subcategory, p.ID)
		}
	}
}

func TestGenerate_LeafSuffix(t *testing.T) {
	tables := DefaultTables()
	for _, p := range Default().Products() {
		if p.Leaf == "" {
			continue
		}
		assert.True(t, strings.HasSuffix(p.Name, tables.LeafSeparator+p.Leaf), p.Name)
		assert.Contains(t, tables.Leaves[p.Category], p.Leaf)
	}
}

func TestGenerate_FallbacksForUnknownInputs(t *testing.T) {
	brands := []model.Brand{
		{ID: "no-categories", Name: "No Categories"},
		{ID: "odd-category", Name: "Odd", Categories: []string{"Garden"}},
	}
	tables := DefaultTables()
	tables.SeriesCategories = nil
	tables.SeriesNames = nil

	products := Generate(brands, DefaultImagePool(), tables)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, tables.DefaultSubcategory, p.Subcategory)
		assert.Equal(t, tables.DefaultDescription, p.Description)
		assert.True(t, strings.HasPrefix(p.Name, tables.DefaultName))
		assert.GreaterOrEqual(t, p.Price, tables.DefaultPriceBand.Min)
		assert.LessOrEqual(t, p.Price, tables.DefaultPriceBand.Max)
	}
}

func TestGenerate_ShortPoolFallsBackToGlobalWalk(t *testing.T) {
	pool := []string{
		"/p/solo-one-a-unsplash.jpg",
		"/p/other-two-b-unsplash.jpg",
		"/p/third-three-c-unsplash.jpg",
		"/p/fourth-four-d-unsplash.jpg",
	}
	products := Generate([]model.Brand{{ID: "b", Categories: []string{"Pet"}}}, pool, DefaultTables())
	for _, p := range products {
		assert.GreaterOrEqual(t, len(p.Images), 2)
		uniq := map[string]struct{}{}
		for _, img := range p.Images {
			uniq[img] = struct{}{}
		}
		assert.Len(t, uniq, len(p.Images))
	}
}

func TestCatalog_BrandWithSixProducts(t *testing.T) {
	c := Default()
	products := c.ProductsByBrand("ashwood-atelier")
	assert.Len(t, products, 6)

	brand, ok := c.Brand("ashwood-atelier")
	require.True(t, ok)
	assert.Equal(t, "Ashwood Atelier", brand.Name)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := Default()
	p, ok := c.Product("prod-001")
	require.True(t, ok)
	p.Images[0] = "mutated"
	p.Name = "mutated"

	again, _ := c.Product("prod-001")
	assert.NotEqual(t, "mutated", again.Images[0])
	assert.NotEqual(t, "mutated", again.Name)

	_, ok = c.Product("prod-999")
	assert.False(t, ok)
}

func TestCatalog_FingerprintChangesWithBrandOrder(t *testing.T) {
	brands := DefaultBrands()
	reversed := make([]model.Brand, len(brands))
	for i, b := range brands {
		reversed[len(brands)-1-i] = b
	}
	a := Build(brands, DefaultImagePool(), DefaultTables())
	b := Build(reversed, DefaultImagePool(), DefaultTables())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)
}

func TestParseBrands_Validation(t *testing.T) {
	_, err := ParseBrands([]byte(`[]`))
	assert.ErrorIs(t, err, ErrNoBrands)

	_, err = ParseBrands([]byte(`[{"id":"a"},{"id":"a"}]`))
	assert.Error(t, err)

	_, err = ParseBrands([]byte(`[{"name":"missing id"}]`))
	assert.Error(t, err)

	brands, err := ParseBrands([]byte(`[{"id":"a","name":"A","categories":["Pet"]}]`))
	require.NoError(t, err)
	assert.Equal(t, "A", brands[0].Name)
}

func TestPRNG_Range(t *testing.T) {
	for seed := -1000; seed < 5000; seed++ {
		v := prng(seed)
		if v < 0 || v >= 1 {
			t.Fatalf("prng(%d) = %v out of [0,1)", seed, v)
		}
	}
	assert.Equal(t, prng(42), prng(42))
	assert.Equal(t, "c", pick([]string{"a", "b", "c"}, -1))
}
