package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the store needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore reads the catalog from Postgres.
type PostgresStore struct {
	db DB
}

// NewPostgresStore returns a store backed by db.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const productColumns = `
	p.id::text, p.slug, p.name, p.description, p.buy_price, p.rent_price_daily, p.rent_price_monthly,
	COALESCE(p.images, '{}'), p.specifications, COALESCE(p.status::text, 'available'), p.category_id::text,
	COALESCE(c.name, ''), COALESCE(p.featured, false), p.stock_quantity, p.created_at, p.updated_at
`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p      Product
		specs  []byte
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.BuyPrice,
		&p.RentPriceDaily,
		&p.RentPriceMonthly,
		&p.Images,
		&specs,
		&status,
		&p.CategoryID,
		&p.CategoryName,
		&p.Featured,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	p.Status = Status(status)
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return Product{}, fmt.Errorf("catalog: decode specifications for %s: %w", p.Slug, err)
		}
	}
	return p, nil
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate products: %w", err)
	}
	return products, nil
}

// ListProducts returns every product, newest first.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+productFrom+`ORDER BY p.created_at DESC`)
}

// ListFeatured returns up to limit featured products, newest first.
func (s *PostgresStore) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 {
		limit = FeaturedLimit
	}
	return s.queryProducts(ctx, `SELECT `+productColumns+productFrom+`WHERE p.featured = true ORDER BY p.created_at DESC LIMIT $1`, limit)
}

// ListRelated returns up to limit other products in p's category.
func (s *PostgresStore) ListRelated(ctx context.Context, p *Product, limit int) ([]Product, error) {
	if p == nil || p.CategoryID == nil {
		return []Product{}, nil
	}
	if limit < 1 {
		limit = RelatedLimit
	}
	return s.queryProducts(ctx,
		`SELECT `+productColumns+productFrom+`WHERE p.category_id = $1 AND p.id <> $2 ORDER BY p.created_at DESC LIMIT $3`,
		*p.CategoryID, p.ID, limit)
}

// GetProductBySlug returns the product with slug or ErrProductNotFound.
func (s *PostgresStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+productFrom+`WHERE p.slug = $1`, slug)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog: get product %s: %w", slug, err)
	}
	return &p, nil
}

// ProductName resolves a product id to its name.
func (s *PostgresStore) ProductName(ctx context.Context, id string) (string, error) {
	var name string
	if err := s.db.QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProductNotFound
		}
		return "", fmt.Errorf("catalog: product name: %w", err)
	}
	return name, nil
}

// ListCategories returns categories ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, slug, name, description, icon, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate categories: %w", err)
	}
	return categories, nil
}

var _ Store = (*PostgresStore)(nil)
