package blog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseSeed reads the posts section of a fixtures file.
func ParseSeed(r io.Reader) ([]Post, error) {
	var doc struct {
		Posts []Post `yaml:"posts"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("blog: decode seed: %w", err)
	}
	for i, p := range doc.Posts {
		if p.Slug == "" || p.Title == "" {
			return nil, fmt.Errorf("blog: seed post %d needs slug and title", i)
		}
	}
	return doc.Posts, nil
}
