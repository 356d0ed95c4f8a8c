package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the number of products per catalog page.
const PageSize = 12

// All disables a filter.
const All = "all"

// PriceRange is a band over a product's buy price.
type PriceRange string

const (
	PriceAll     PriceRange = All
	PriceUnder5  PriceRange = "under5"
	Price5to10   PriceRange = "5to10"
	Price10to20  PriceRange = "10to20"
	PriceAbove20 PriceRange = "above20"
)

const (
	fiveMillion   int64 = 5_000_000
	tenMillion    int64 = 10_000_000
	twentyMillion int64 = 20_000_000
)

// Contains reports whether price falls in the band. Unknown bands match
// everything.
func (r PriceRange) Contains(price int64) bool {
	switch r {
	case PriceUnder5:
		return price < fiveMillion
	case Price5to10:
		return price >= fiveMillion && price <= tenMillion
	case Price10to20:
		return price >= tenMillion && price <= twentyMillion
	case PriceAbove20:
		return price >= twentyMillion
	default:
		return true
	}
}

// Query is the catalog view state: search text, filters and the 1-based page.
// The zero value shows everything from page 1.
type Query struct {
	Search     string     `json:"search,omitempty"`
	Category   string     `json:"category,omitempty"`
	Status     string     `json:"status,omitempty"`
	PriceRange PriceRange `json:"price,omitempty"`
	Page       int        `json:"page,omitempty"`
}

// ParseQuery reads a Query from URL parameters.
func ParseQuery(v url.Values) Query {
	page, _ := strconv.Atoi(v.Get("page"))
	return Query{
		Search:     v.Get("search"),
		Category:   v.Get("category"),
		Status:     v.Get("status"),
		PriceRange: PriceRange(v.Get("price")),
		Page:       page,
	}
}

// Values encodes q as URL parameters, leaving out defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if !isAll(q.Category) {
		v.Set("category", q.Category)
	}
	if !isAll(q.Status) {
		v.Set("status", q.Status)
	}
	if !isAll(string(q.PriceRange)) {
		v.Set("price", string(q.PriceRange))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// HasFilters reports whether any search or filter narrows the list.
func (q Query) HasFilters() bool {
	return strings.TrimSpace(q.Search) != "" || !isAll(q.Category) || !isAll(q.Status) || !isAll(string(q.PriceRange))
}

// WithSearch returns a copy searching for s, back on page 1.
func (q Query) WithSearch(s string) Query {
	q.Search = s
	q.Page = 1
	return q
}

// WithCategory returns a copy filtered to category id, back on page 1.
func (q Query) WithCategory(id string) Query {
	q.Category = id
	q.Page = 1
	return q
}

// WithStatus returns a copy filtered to status, back on page 1.
func (q Query) WithStatus(s string) Query {
	q.Status = s
	q.Page = 1
	return q
}

// WithPriceRange returns a copy filtered to r, back on page 1.
func (q Query) WithPriceRange(r PriceRange) Query {
	q.PriceRange = r
	q.Page = 1
	return q
}

// WithPage returns a copy on page n.
func (q Query) WithPage(n int) Query {
	q.Page = n
	return q
}

// Cleared drops every filter and returns to page 1.
func (q Query) Cleared() Query {
	return Query{Page: 1}
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Page is one page of a filtered product list.
type Page struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Filter returns the products matching every filter in q, keeping input
// order. Unknown statuses and price bands match everything; an unknown
// category id matches nothing. The input slice is not modified.
func Filter(products []Product, q Query) []Product {
	needle := foldName(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	status := Status(strings.ToLower(strings.TrimSpace(q.Status)))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(foldName(p.Name), needle) {
			continue
		}
		if !isAll(category) && (p.CategoryID == nil || *p.CategoryID != category) {
			continue
		}
		if status.Valid() && p.Status != status {
			continue
		}
		if !q.PriceRange.Contains(buyPrice(p)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate slices products to the 1-based page. Pages below 1 are treated as
// 1; pages past the end are empty.
func Paginate(products []Product, page, size int) []Product {
	if size < 1 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(products) {
		return []Product{}
	}
	end := min(start+size, len(products))
	return products[start:end]
}

// Apply filters products by q and returns the requested page.
func Apply(products []Product, q Query) Page {
	filtered := Filter(products, q)
	page := max(q.Page, 1)
	return Page{
		Items:      Paginate(filtered, page, PageSize),
		Total:      len(filtered),
		Page:       page,
		PageSize:   PageSize,
		TotalPages: (len(filtered) + PageSize - 1) / PageSize,
	}
}

func buyPrice(p Product) int64 {
	if p.BuyPrice == nil {
		return 0
	}
	return *p.BuyPrice
}
