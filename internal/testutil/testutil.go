// Package testutil provides shared test helpers for building example fixtures and databases.
package testutil

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/liamg/memoryfs"

	"github.com/starford/exampledeck/internal/build"
	"github.com/starford/exampledeck/internal/index"
	"github.com/starford/exampledeck/internal/storage"
)

// BuiltAt is the clock used by Build so manifests are reproducible.
var BuiltAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "exampledeck-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ExampleDoc returns a one-section example file.
func ExampleDoc(title, category, code string) string {
	doc := "# " + title + "\n\n---\n\n## " + title + "\n"
	if category != "" {
		doc += "**Category:** " + category + "\n"
	}
	doc += "**Description:** About " + title + "\n\n### Code\n```kotlin\n" + code + "\n```\n\n### Output\n```\nok\n```\n"
	return doc
}

// Build writes files into an in-memory source and builds them into a fresh
// output directory. Logs are discarded.
func Build(t *testing.T, files map[string]string) (*storage.Dir, *build.Report) {
	t.Helper()
	mem := memoryfs.New()
	for name, content := range files {
		if err := mem.WriteFile(name, []byte(content), fs.ModePerm); err != nil {
			t.Fatal(err)
		}
	}
	out, err := storage.NewDir(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b := build.New(storage.NewFSSource(mem, nil), out,
		build.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		build.WithClock(func() time.Time { return BuiltAt }))
	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return out, report
}
