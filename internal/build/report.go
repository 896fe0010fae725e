package build

import (
	"sort"
	"sync"
	"time"

	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/manifest"
)

// Report summarises one build run.
type Report struct {
	mu sync.Mutex

	Manifest  *manifest.Manifest
	Records   []*example.Record // sorted by identifier once the build finishes
	Checksums map[string]string // identifier -> digest of the written artifact
	Skipped   []string          // source files that held no example
	Failed    map[string]string // source file -> error message
	Duration  time.Duration
}

func newReport(m *manifest.Manifest) *Report {
	return &Report{
		Manifest:  m,
		Checksums: map[string]string{},
		Failed:    map[string]string{},
	}
}

func (r *Report) add(rec *example.Record, sum string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Records = append(r.Records, rec)
	r.Checksums[rec.Identifier] = sum
}

func (r *Report) skip(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, name)
}

func (r *Report) fail(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed[name] = err.Error()
}

func (r *Report) finish(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Slice(r.Records, func(i, j int) bool {
		return r.Records[i].Identifier < r.Records[j].Identifier
	})
	sort.Strings(r.Skipped)
	r.Duration = d
}

// ChangeKind classifies how an example changed between two builds.
type ChangeKind string

// Change kinds.
const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
)

// Change is one example that differs between two builds.
type Change struct {
	Kind ChangeKind
	Slug string
}

// Diff compares artifact checksums of two builds. A nil prev treats every
// example in next as created. Changes are sorted by slug.
func Diff(prev, next *Report) []Change {
	var before map[string]string
	if prev != nil {
		before = prev.Checksums
	}
	var out []Change
	for slug, sum := range next.Checksums {
		old, ok := before[slug]
		switch {
		case !ok:
			out = append(out, Change{Kind: Created, Slug: slug})
		case old != sum:
			out = append(out, Change{Kind: Updated, Slug: slug})
		}
	}
	for slug := range before {
		if _, ok := next.Checksums[slug]; !ok {
			out = append(out, Change{Kind: Deleted, Slug: slug})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
