package blog

import (
	"errors"
	"time"
)

// ErrPostNotFound is returned when no published post matches a slug.
var ErrPostNotFound = errors.New("blog: post not found")

// Post is a news article. Content is markdown; ContentHTML is the sanitized
// rendering and is only filled for single-post responses.
type Post struct {
	ID            string     `json:"id" yaml:"-"`
	Slug          string     `json:"slug" yaml:"slug"`
	Title         string     `json:"title" yaml:"title"`
	Excerpt       *string    `json:"excerpt,omitempty" yaml:"excerpt"`
	Content       *string    `json:"content,omitempty" yaml:"content"`
	ContentHTML   string     `json:"content_html,omitempty" yaml:"-"`
	FeaturedImage *string    `json:"featured_image,omitempty" yaml:"featured_image"`
	Author        *string    `json:"author,omitempty" yaml:"author"`
	Tags          []string   `json:"tags" yaml:"tags"`
	Published     bool       `json:"published" yaml:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty" yaml:"published_at"`
	CreatedAt     time.Time  `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"-"`
}
