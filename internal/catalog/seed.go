package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Seed is the catalog part of a fixtures file.
type Seed struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// ParseSeed decodes catalog fixtures from YAML. In fixtures a product's
// category_id holds the category slug.
func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	for i, p := range seed.Products {
		if p.Slug == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog: seed product %d needs slug and name", i)
		}
		if p.Status == "" {
			seed.Products[i].Status = StatusAvailable
		} else if !p.Status.Valid() {
			return nil, fmt.Errorf("catalog: seed product %s has unknown status %q", p.Slug, p.Status)
		}
	}
	for i, c := range seed.Categories {
		if c.Slug == "" || c.Name == "" {
			return nil, fmt.Errorf("catalog: seed category %d needs slug and name", i)
		}
	}
	return &seed, nil
}

// ApplySeed upserts categories then products, keyed by slug.
func (s *PostgresStore) ApplySeed(ctx context.Context, seed *Seed) error {
	for _, c := range seed.Categories {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO categories (slug, name, description, icon)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO UPDATE
			SET name = EXCLUDED.name, description = EXCLUDED.description, icon = EXCLUDED.icon
		`, c.Slug, c.Name, c.Description, c.Icon); err != nil {
			return fmt.Errorf("catalog: seed category %s: %w", c.Slug, err)
		}
	}

	for _, p := range seed.Products {
		specs, err := json.Marshal(p.Specifications)
		if err != nil {
			return fmt.Errorf("catalog: encode specifications for %s: %w", p.Slug, err)
		}
		images := p.Images
		if images == nil {
			images = []string{}
		}
		var categorySlug *string
		if p.CategoryID != nil && *p.CategoryID != "" {
			categorySlug = p.CategoryID
		}
		if _, err := s.db.Exec(ctx, `
			INSERT INTO products (slug, name, description, buy_price, rent_price_daily, rent_price_monthly,
				images, specifications, status, category_id, featured, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
				(SELECT id FROM categories WHERE slug = $10), $11, $12)
			ON CONFLICT (slug) DO UPDATE
			SET name = EXCLUDED.name, description = EXCLUDED.description, buy_price = EXCLUDED.buy_price,
				rent_price_daily = EXCLUDED.rent_price_daily, rent_price_monthly = EXCLUDED.rent_price_monthly,
				images = EXCLUDED.images, specifications = EXCLUDED.specifications, status = EXCLUDED.status,
				category_id = EXCLUDED.category_id, featured = EXCLUDED.featured,
				stock_quantity = EXCLUDED.stock_quantity, updated_at = now()
		`, p.Slug, p.Name, p.Description, p.BuyPrice, p.RentPriceDaily, p.RentPriceMonthly,
			images, specs, string(p.Status), categorySlug, p.Featured, p.StockQuantity); err != nil {
			return fmt.Errorf("catalog: seed product %s: %w", p.Slug, err)
		}
	}
	return nil
}

// MemoryStore loads the fixtures into an in-memory store. Slugs stand in
// for missing ids, so fixture category references resolve as-is.
func (s *Seed) MemoryStore() *MemoryStore {
	categories := make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		if c.ID == "" {
			c.ID = c.Slug
		}
		categories[i] = c
	}
	products := make([]Product, len(s.Products))
	for i, p := range s.Products {
		if p.ID == "" {
			p.ID = p.Slug
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		products[i] = p
	}
	return NewMemoryStore(products, categories)
}
