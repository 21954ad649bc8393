package search

import (
	"testing"

	"avnu/internal/catalog"
	"avnu/internal/model"
)

func TestBrands(t *testing.T) {
	brands := []model.Brand{
		{ID: "a", Name: "Ashwood Atelier", Tagline: "Quiet objects", Location: "Portland, OR", Categories: []string{"Home & Living"}},
		{ID: "b", Name: "Good Boy Co", Tagline: "Gear for dogs", Location: "Austin, TX", Categories: []string{"Pet"}},
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b"}},
		{"   ", []string{"a", "b"}},
		{"ASHWOOD", []string{"a"}},
		{"dogs", []string{"b"}},
		{"austin", []string{"b"}},
		{"living", []string{"a"}},
		{"o", []string{"a", "b"}},
		{"nothing", nil},
	}
	for _, tc := range cases {
		got := Brands(brands, tc.query)
		if len(got) != len(tc.want) {
			t.Fatalf("query %q: expected %d brands, got %d", tc.query, len(tc.want), len(got))
		}
		for i := range tc.want {
			if got[i].ID != tc.want[i] {
				t.Fatalf("query %q: expected %v at %d, got %s", tc.query, tc.want[i], i, got[i].ID)
			}
		}
	}
}

func TestBrandCategories(t *testing.T) {
	got := BrandCategories(catalog.DefaultBrands())
	if len(got) == 0 {
		t.Fatalf("expected categories")
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("categories not sorted/distinct: %v", got)
		}
	}
}
