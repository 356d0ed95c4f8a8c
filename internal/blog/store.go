package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lib/pq"
)

// DefaultListLimit caps listings when the caller gives no limit.
const DefaultListLimit = 50

// Store reads published posts.
type Store interface {
	ListPublished(ctx context.Context, limit int) ([]Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
}

// SQLStore reads posts through database/sql.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a store backed by db.
func NewSQLStore(db *sql.DB) *SQLStore {
	if db == nil {
		panic("blog: db required")
	}
	return &SQLStore{db: db}
}

const postColumns = `id::text, slug, title, excerpt, content, featured_image, author, tags,
	COALESCE(published, false), published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.FeaturedImage, &p.Author,
		pq.Array(&p.Tags), &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// ListPublished returns published posts, most recently published first.
func (s *SQLStore) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		WHERE published = true
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("blog: list posts: %w", err)
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("blog: scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPublishedBySlug returns a published post or ErrPostNotFound.
func (s *SQLStore) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		WHERE slug = $1 AND published = true`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blog: get post %s: %w", slug, err)
	}
	return &p, nil
}

// Upsert inserts or updates a post keyed by slug.
func (s *SQLStore) Upsert(ctx context.Context, p *Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blogs (slug, title, excerpt, content, featured_image, author, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, excerpt = EXCLUDED.excerpt, content = EXCLUDED.content,
			featured_image = EXCLUDED.featured_image, author = EXCLUDED.author, tags = EXCLUDED.tags,
			published = EXCLUDED.published, published_at = EXCLUDED.published_at, updated_at = now()`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.FeaturedImage, p.Author, pq.Array(p.Tags), p.Published, p.PublishedAt)
	if err != nil {
		return fmt.Errorf("blog: upsert %s: %w", p.Slug, err)
	}
	return nil
}

// MemoryStore serves posts from memory for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []Post
}

// NewMemoryStore keeps the published subset of posts.
func NewMemoryStore(posts []Post) *MemoryStore {
	published := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Published {
			published = append(published, p)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		a, b := published[i].PublishedAt, published[j].PublishedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return &MemoryStore{posts: published}
}

// ListPublished returns published posts, most recently published first.
func (s *MemoryStore) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(limit, len(s.posts))
	return append([]Post{}, s.posts[:n]...), nil
}

// GetPublishedBySlug returns a published post or ErrPostNotFound.
func (s *MemoryStore) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, ErrPostNotFound
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
