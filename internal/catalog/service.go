// Package catalog serves built examples back from the output directory.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/starford/exampledeck/internal/apperr"
	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/index"
	"github.com/starford/exampledeck/internal/manifest"
)

// Reader reads build artifacts relative to the output root.
type Reader interface {
	Read(path string) ([]byte, error)
}

// ListItem is a lightweight item in a list response.
type ListItem struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Path        string `json:"path"`
}

// Service answers read queries against the latest build output.
// Every call reads the manifest afresh, so a rebuild is visible immediately.
type Service struct {
	out          Reader
	manifestName string
	idx          index.ExampleIndex
}

// NewService creates a catalog over out. idx may be nil, in which case
// Search reports apperr.ErrUnavailable.
func NewService(out Reader, manifestName string, idx index.ExampleIndex) *Service {
	return &Service{out: out, manifestName: manifestName, idx: idx}
}

// Manifest returns the current manifest.
func (s *Service) Manifest(_ context.Context) (*manifest.Manifest, error) {
	data, err := s.out.Read(s.manifestName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotBuilt
		}
		return nil, err
	}
	return manifest.Decode(data)
}

// List returns every example, optionally restricted to one category,
// sorted by slug.
func (s *Service) List(ctx context.Context, category string) ([]ListItem, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(m.Examples))
	for _, slug := range m.IDs() {
		e, _ := m.Get(slug)
		if category != "" && e.Category != category {
			continue
		}
		items = append(items, ListItem{
			Slug:        slug,
			Title:       e.Title,
			Description: e.Description,
			Category:    e.Category,
			Icon:        e.Icon,
			Path:        e.Path,
		})
	}
	return items, nil
}

// Get loads the full record for slug.
func (s *Service) Get(ctx context.Context, slug string) (*example.Record, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := m.Get(slug)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	data, err := s.out.Read(e.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	var rec example.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", e.Path, err)
	}
	return &rec, nil
}

// Categories returns example counts per category. The index answers when
// present; otherwise the manifest is tallied.
func (s *Service) Categories(ctx context.Context) ([]index.CategoryCount, error) {
	if s.idx != nil {
		return s.idx.Categories()
	}
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, e := range m.Examples {
		if e.Category != "" {
			counts[e.Category]++
		}
	}
	out := make([]index.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, index.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Search runs a full-text query against the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.idx == nil {
		return nil, apperr.ErrUnavailable
	}
	return s.idx.Search(query, limit)
}
