// Package manifest builds the index document describing every built example.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/starford/exampledeck/internal/example"
)

// DefaultVersion is the manifest format version.
const DefaultVersion = "1.0.0"

// TimeLayout is the ISO-8601 layout used for generatedAt (always UTC).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is the lightweight metadata published for one example.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Path        string `json:"path"`
}

// EntryFor derives the manifest entry for rec published at path.
func EntryFor(rec *example.Record, path string) Entry {
	return Entry{
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Icon:        rec.Icon,
		Path:        path,
	}
}

// Manifest maps example identifiers to their metadata.
// Add may be called from multiple goroutines.
type Manifest struct {
	mu sync.Mutex

	Version     string           `json:"version"`
	GeneratedAt string           `json:"generatedAt"`
	Count       int              `json:"count"`
	Examples    map[string]Entry `json:"examples"`
}

// New returns an empty manifest stamped with the given build time.
func New(version string, at time.Time) *Manifest {
	if version == "" {
		version = DefaultVersion
	}
	return &Manifest{
		Version:     version,
		GeneratedAt: at.UTC().Format(TimeLayout),
		Examples:    map[string]Entry{},
	}
}

// Add records one successfully built example. Adding an identifier twice
// replaces the entry without changing the count.
func (m *Manifest) Add(id string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Examples[id]; !exists {
		m.Count++
	}
	m.Examples[id] = e
}

// Get returns the entry for id.
func (m *Manifest) Get(id string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Examples[id]
	return e, ok
}

// IDs returns every identifier, sorted.
func (m *Manifest) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Examples))
	for id := range m.Examples {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON encodes the manifest under its lock.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type plain struct {
		Version     string           `json:"version"`
		GeneratedAt string           `json:"generatedAt"`
		Count       int              `json:"count"`
		Examples    map[string]Entry `json:"examples"`
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Count:       m.Count,
		Examples:    m.Examples,
	}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a manifest document.
func Decode(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Examples == nil {
		m.Examples = map[string]Entry{}
	}
	return m, nil
}
