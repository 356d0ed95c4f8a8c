package catalog

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Máy đục bê tông Bosch", BuyPrice: price(15_000_000), Status: StatusAvailable, CategoryID: strPtr("c-break")},
		{ID: "p2", Name: "Máy tời điện", BuyPrice: price(8_500_000), Status: StatusOutOfStock, CategoryID: strPtr("c-lift")},
	}
}

func names(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestFilter_SearchMatchesNameSubstring(t *testing.T) {
	got := Filter(sampleProducts(), Query{Search: "tời"})
	assert.Equal(t, []string{"Máy tời điện"}, names(got))
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	got := Filter(sampleProducts(), Query{Search: "  BOSCH "})
	assert.Equal(t, []string{"Máy đục bê tông Bosch"}, names(got))

	got = Filter(sampleProducts(), Query{Search: "MÁY TỜI"})
	assert.Equal(t, []string{"Máy tời điện"}, names(got))
}

func TestFilter_SearchNormalizesCombiningMarks(t *testing.T) {
	// "tời" typed as t + o + combining horn + combining grave + i.
	decomposed := "to\u031b\u0300i"
	got := Filter(sampleProducts(), Query{Search: decomposed})
	assert.Equal(t, []string{"Máy tời điện"}, names(got))
}

func TestFilter_SearchIgnoresOtherFields(t *testing.T) {
	products := []Product{{ID: "x", Name: "Máy cắt", Description: strPtr("tời")}}
	assert.Empty(t, Filter(products, Query{Search: "tời"}))
}

func TestFilter_PriceBands(t *testing.T) {
	tests := []struct {
		band  PriceRange
		price *int64
		want  bool
	}{
		{Price5to10, price(8_500_000), true},
		{Price5to10, price(15_000_000), false},
		{Price5to10, price(5_000_000), true},
		{Price5to10, price(10_000_000), true},
		{PriceUnder5, price(4_999_999), true},
		{PriceUnder5, price(5_000_000), false},
		{PriceUnder5, nil, true},
		{Price10to20, price(10_000_000), true},
		{Price10to20, price(20_000_000), true},
		{Price10to20, price(20_000_001), false},
		{PriceAbove20, price(20_000_000), true},
		{PriceAbove20, price(19_999_999), false},
		{PriceAbove20, nil, false},
		{Price5to10, nil, false},
		{PriceAll, nil, true},
		{PriceRange("bogus"), price(1), true},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("%s/%v", tt.band, tt.price)
		if tt.price != nil {
			name = fmt.Sprintf("%s/%d", tt.band, *tt.price)
		}
		t.Run(name, func(t *testing.T) {
			got := Filter([]Product{{ID: "x", Name: "x", BuyPrice: tt.price}}, Query{PriceRange: tt.band})
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestFilter_CategoryAndStatusAreANDed(t *testing.T) {
	products := append(sampleProducts(),
		Product{ID: "p3", Name: "Máy tời mini", BuyPrice: price(4_000_000), Status: StatusAvailable, CategoryID: strPtr("c-lift")},
		Product{ID: "p4", Name: "Pa lăng", Status: StatusAvailable},
	)

	got := Filter(products, Query{Category: "c-lift", Status: string(StatusAvailable)})
	assert.Equal(t, []string{"Máy tời mini"}, names(got))

	got = Filter(products, Query{Category: "c-lift"})
	assert.Equal(t, []string{"Máy tời điện", "Máy tời mini"}, names(got))

	got = Filter(products, Query{Category: "c-none"})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilter_StatusValues(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		status string
		want   []string
	}{
		{"", []string{"Máy đục bê tông Bosch", "Máy tời điện"}},
		{"all", []string{"Máy đục bê tông Bosch", "Máy tời điện"}},
		{"available", []string{"Máy đục bê tông Bosch"}},
		{" AVAILABLE ", []string{"Máy đục bê tông Bosch"}},
		{"out_of_stock", []string{"Máy tời điện"}},
		{"discontinued", []string{}},
		{"bogus", []string{"Máy đục bê tông Bosch", "Máy tời điện"}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := Filter(products, Query{Status: tt.status})
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilter_UnknownCategoryMatchesNothing(t *testing.T) {
	got := Filter(sampleProducts(), Query{Category: "khong-ton-tai", Status: "bogus"})
	assert.Empty(t, got)
	assert.NotNil(t, got)

	page := Apply(sampleProducts(), Query{Category: "khong-ton-tai"})
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestFilter_AllReturnsEverything(t *testing.T) {
	products := sampleProducts()
	q := Query{Category: "all", Status: "all", PriceRange: PriceAll}
	assert.Equal(t, products, Filter(products, q))
	assert.Equal(t, products, Filter(products, Query{}))
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	products := sampleProducts()
	before := append([]Product(nil), products...)
	_ = Filter(products, Query{Search: "tời"})
	assert.Equal(t, before, products)
}

func TestApply_Idempotent(t *testing.T) {
	products := manyProducts(30)
	q := Query{Search: "máy", PriceRange: Price5to10, Page: 2}

	first := Apply(products, q)
	second := Apply(products, q)
	assert.Equal(t, first, second)
}

func manyProducts(n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("Máy số %d", i),
			BuyPrice: price(int64(5_000_000 + i*100_000)),
			Status:   StatusAvailable,
		}
	}
	return out
}

func TestApply_PagesWithinFilteredCount(t *testing.T) {
	products := manyProducts(5)

	page1 := Apply(products, Query{Page: 1})
	assert.Len(t, page1.Items, 5)
	assert.Equal(t, 5, page1.Total)
	assert.Equal(t, 1, page1.TotalPages)
	assert.Equal(t, PageSize, page1.PageSize)

	page2 := Apply(products, Query{Page: 2})
	assert.Empty(t, page2.Items)
	assert.NotNil(t, page2.Items)
	assert.Equal(t, 5, page2.Total)
	assert.Equal(t, 2, page2.Page)
}

func TestApply_AllFiltersPagesFullList(t *testing.T) {
	products := manyProducts(30)

	page := Apply(products, Query{})
	require.Len(t, page.Items, PageSize)
	assert.Equal(t, 30, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, products[:PageSize], page.Items)

	last := Apply(products, Query{Page: 3})
	assert.Equal(t, products[24:], last.Items)
}

func TestApply_PageBelowOneIsFirstPage(t *testing.T) {
	products := manyProducts(13)
	for _, p := range []int{0, -4} {
		page := Apply(products, Query{Page: p})
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Items, PageSize)
	}
}

func TestApply_EmptyResultIsNotAnError(t *testing.T) {
	page := Apply(sampleProducts(), Query{Search: "không tồn tại"})
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)

	page = Apply(nil, Query{})
	assert.Equal(t, 0, page.Total)
}

func TestQuery_WithHelpersResetPage(t *testing.T) {
	q := Query{Page: 4}

	assert.Equal(t, 1, q.WithSearch("tời").Page)
	assert.Equal(t, 1, q.WithCategory("c1").Page)
	assert.Equal(t, 1, q.WithStatus("available").Page)
	assert.Equal(t, 1, q.WithPriceRange(PriceAbove20).Page)
	assert.Equal(t, 7, q.WithPage(7).Page)
	assert.Equal(t, 4, q.Page, "helpers return copies")

	cleared := Query{Search: "x", Category: "c", Status: "s", PriceRange: PriceUnder5, Page: 3}.Cleared()
	assert.Equal(t, Query{Page: 1}, cleared)
	assert.False(t, cleared.HasFilters())
}

func TestQuery_URLValues(t *testing.T) {
	v, err := url.ParseQuery("search=m%C3%A1y&category=c1&status=all&price=5to10&page=3")
	require.NoError(t, err)

	q := ParseQuery(v)
	assert.Equal(t, Query{Search: "máy", Category: "c1", Status: "all", PriceRange: Price5to10, Page: 3}, q)
	assert.True(t, q.HasFilters())

	assert.Equal(t, url.Values{
		"search":   {"máy"},
		"category": {"c1"},
		"price":    {"5to10"},
		"page":     {"3"},
	}, q.Values())

	assert.Empty(t, ParseQuery(url.Values{"page": {"abc"}}).Values())
}
