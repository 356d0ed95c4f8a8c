package catalog

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// RelatedLimit caps the related products shown on a detail page.
	RelatedLimit = 4
	// FeaturedLimit is the default size of the featured list.
	FeaturedLimit = 8
)

// Store is the read side of the product catalog.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListFeatured(ctx context.Context, limit int) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListRelated(ctx context.Context, p *Product, limit int) ([]Product, error)
	ProductName(ctx context.Context, id string) (string, error)
}

// MemoryStore serves a fixed catalog from memory. Used for local runs and
// tests.
type MemoryStore struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

// NewMemoryStore copies products and categories into a new store.
func NewMemoryStore(products []Product, categories []Category) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(products, categories)
	return s
}

// Replace swaps the whole catalog.
func (s *MemoryStore) Replace(products []Product, categories []Category) {
	ps := append([]Product(nil), products...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	cs := append([]Category(nil), categories...)
	col := collate.New(language.Vietnamese)
	sort.SliceStable(cs, func(i, j int) bool { return col.CompareString(cs[i].Name, cs[j].Name) < 0 })

	names := make(map[string]string, len(cs))
	for _, c := range cs {
		names[c.ID] = c.Name
	}
	for i := range ps {
		if ps[i].CategoryID != nil {
			ps[i].CategoryName = names[*ps[i].CategoryID]
		}
	}

	s.mu.Lock()
	s.products = ps
	s.categories = cs
	s.mu.Unlock()
}

// ListProducts returns every product, newest first.
func (s *MemoryStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...), nil
}

// ListCategories returns categories ordered by name.
func (s *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...), nil
}

// ListFeatured returns up to limit featured products, newest first.
func (s *MemoryStore) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 {
		limit = FeaturedLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, limit)
	for _, p := range s.products {
		if len(out) == limit {
			break
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProductBySlug returns the product with slug or ErrProductNotFound.
func (s *MemoryStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, ErrProductNotFound
}

// ListRelated returns up to limit other products in p's category.
func (s *MemoryStore) ListRelated(ctx context.Context, p *Product, limit int) ([]Product, error) {
	if p == nil || p.CategoryID == nil {
		return []Product{}, nil
	}
	if limit < 1 {
		limit = RelatedLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, limit)
	for _, other := range s.products {
		if len(out) == limit {
			break
		}
		if other.ID == p.ID || other.CategoryID == nil || *other.CategoryID != *p.CategoryID {
			continue
		}
		out = append(out, other)
	}
	return out, nil
}

// ProductName resolves a product id to its name.
func (s *MemoryStore) ProductName(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Name, nil
		}
	}
	return "", ErrProductNotFound
}

var _ Store = (*MemoryStore)(nil)
