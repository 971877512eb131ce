package catalog

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestApply_CategoryAllMatchesUnfiltered(t *testing.T) {
	products := fixtureCatalog()

	res := Apply(products, Query{Criteria: DefaultCriteria()})
	assert.Equal(t, len(products), res.Total)

	res = Apply(products, Query{})
	assert.Equal(t, len(products), res.Total, "empty category means all")
}

func TestApply_CategoryFilter(t *testing.T) {
	res := Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{Category: "pantry"}})

	assert.Equal(t, []string{"p1", "p3", "p5"}, ids(res.Items))
	for _, p := range res.Items {
		assert.Equal(t, "pantry", p.Category)
	}
}

func TestApply_Search(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term is a no-op", "", []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
		{"whitespace term is a no-op", "   ", []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
		{"case insensitive name", "PLANTAIN", []string{"p2"}},
		{"trimmed", "  rice ", []string{"p1"}},
		{"description", "unrefined", []string{"p6"}},
		{"category display name", "staples", []string{"p1", "p3", "p5"}},
		{"accented name", "ábara", []string{"p5"}},
		{"no match", "caviar", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{SearchTerm: tt.term}})
			assert.Equal(t, tt.want, ids(res.Items))
		})
	}
}

func TestApply_NoResultsIsNotAnError(t *testing.T) {
	res := Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{SearchTerm: "caviar"}})

	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.TotalPages)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestApply_SearchUsesStoredCategoryNameForUnknownKeys(t *testing.T) {
	products := []Product{{ID: "x", Name: "Widget", Category: "legacy", CategoryName: "Old Stock", StockStatus: InStock}}

	res := Apply(products, Query{Criteria: FilterCriteria{SearchTerm: "old"}})
	assert.Equal(t, []string{"x"}, ids(res.Items))
}

func TestApply_PriceRange(t *testing.T) {
	min, max := ParsePriceBounds("3", "7")
	res := Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{MinPrice: min, MaxPrice: max}})
	assert.Equal(t, []string{"p1", "p5", "p6"}, ids(res.Items))

	// Bounds are inclusive.
	min, max = ParsePriceBounds("5.00", "5.00")
	res = Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{MinPrice: min, MaxPrice: max}})
	assert.Equal(t, []string{"p1"}, ids(res.Items))

	min, max = ParsePriceBounds("10", "")
	res = Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{MinPrice: min, MaxPrice: max}})
	assert.Equal(t, []string{"p4"}, ids(res.Items))
}

func TestApply_StockFilter(t *testing.T) {
	res := Apply(fixtureCatalog(), Query{Criteria: FilterCriteria{InStockOnly: true}})
	assert.NotContains(t, ids(res.Items), "p3")
	assert.Equal(t, 5, res.Total)
}

func TestApply_StagesCombine(t *testing.T) {
	min, max := ParsePriceBounds("2", "")
	res := Apply(fixtureCatalog(), Query{
		Criteria: FilterCriteria{
			Category:    "pantry",
			SearchTerm:  "a",
			MinPrice:    min,
			MaxPrice:    max,
			InStockOnly: true,
		},
		Sort: SortPriceDesc,
	})
	assert.Equal(t, []string{"p1", "p5"}, ids(res.Items))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := fixtureCatalog()
	before := ids(products)

	Apply(products, Query{Sort: SortPriceAsc, Criteria: FilterCriteria{Category: "pantry"}})

	assert.Equal(t, before, ids(products))
}

func TestApply_SortModes(t *testing.T) {
	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortDefault, []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
		{SortNameAsc, []string{"p5", "p4", "p3", "p2", "p1", "p6"}},
		{SortNameDesc, []string{"p6", "p1", "p2", "p3", "p4", "p5"}},
		{SortPriceAsc, []string{"p2", "p5", "p1", "p6", "p3", "p4"}},
		{SortPriceDesc, []string{"p4", "p3", "p6", "p1", "p5", "p2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			res := Apply(fixtureCatalog(), Query{Sort: tt.mode, Locale: language.BritishEnglish})
			assert.Equal(t, tt.want, ids(res.Items))
		})
	}
}

func TestApply_PriceSortsReverseWithoutTies(t *testing.T) {
	asc := ids(Apply(fixtureCatalog(), Query{Sort: SortPriceAsc}).Items)
	desc := ids(Apply(fixtureCatalog(), Query{Sort: SortPriceDesc}).Items)

	reversed := make([]string, len(desc))
	for i, id := range desc {
		reversed[len(desc)-1-i] = id
	}
	assert.Equal(t, asc, reversed)
}

func TestApply_SortIsStable(t *testing.T) {
	products := []Product{
		product("a", "Same", "pantry", "2.00", InStock),
		product("b", "Same", "pantry", "1.00", InStock),
		product("c", "Same", "pantry", "2.00", InStock),
	}

	assert.Equal(t, []string{"b", "a", "c"}, ids(Apply(products, Query{Sort: SortPriceAsc}).Items))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Apply(products, Query{Sort: SortPriceDesc}).Items))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Apply(products, Query{Sort: SortNameAsc}).Items))
}

func TestApply_Pagination(t *testing.T) {
	products := numberedCatalog(25)

	tests := []struct {
		page int
		want int
	}{
		{1, 12},
		{2, 12},
		{3, 1},
		{4, 0},
	}

	for _, tt := range tests {
		res := Apply(products, Query{Page: tt.page})
		assert.Len(t, res.Items, tt.want, "page %d", tt.page)
		assert.Equal(t, 25, res.Total)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, tt.page, res.Page)
	}

	res := Apply(products, Query{Page: 3})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p25", res.Items[0].ID)
}

func TestApply_HugePageIsEmpty(t *testing.T) {
	products := numberedCatalog(61)

	for _, page := range []int{6, 7, math.MaxInt / 12, math.MaxInt} {
		res := Apply(products, Query{Page: page})
		assert.Empty(t, res.Items, "page %d", page)
		assert.Equal(t, page, res.Page)
		assert.Equal(t, 61, res.Total)
		assert.Equal(t, 6, res.TotalPages)
	}
}

func TestApply_PageBelowOneReadsFirstPage(t *testing.T) {
	res := Apply(numberedCatalog(3), Query{Page: 0, PageSize: 2})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, []string{"p1", "p2"}, ids(res.Items))
}

func TestApply_CustomPageSize(t *testing.T) {
	res := Apply(numberedCatalog(5), Query{Page: 2, PageSize: 2})
	assert.Equal(t, []string{"p3", "p4"}, ids(res.Items))
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.PageSize)
}

func TestFilter_MaxPriceUnbounded(t *testing.T) {
	products := []Product{product("big", "Hamper", "pantry", "999999.99", InStock)}
	got := Filter(products, FilterCriteria{MinPrice: decimal.Zero})
	assert.Len(t, got, 1)
}
