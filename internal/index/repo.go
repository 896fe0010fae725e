package index

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/manifest"
)

// ExampleRow represents a row in the examples table.
type ExampleRow struct {
	Slug        string
	Title       string
	Category    string
	Description string
	Icon        string
	Code        string
	Output      string
	TryItems    []string
	Path        string
	BuiltAt     time.Time
}

// RowFor converts a built record published at path into an index row.
func RowFor(rec *example.Record, path string, builtAt time.Time) ExampleRow {
	return ExampleRow{
		Slug:        rec.Identifier,
		Title:       rec.Title,
		Category:    rec.Category,
		Description: rec.Description,
		Icon:        rec.Icon,
		Code:        rec.Code,
		Output:      rec.Output,
		TryItems:    rec.TryItems,
		Path:        path,
		BuiltAt:     builtAt,
	}
}

// RowsFor converts the records of one build into index rows, taking each
// path from the manifest. Records missing from the manifest are skipped.
func RowsFor(records []*example.Record, m *manifest.Manifest, builtAt time.Time) []ExampleRow {
	rows := make([]ExampleRow, 0, len(records))
	for _, rec := range records {
		e, ok := m.Get(rec.Identifier)
		if !ok {
			continue
		}
		rows = append(rows, RowFor(rec, e.Path, builtAt))
	}
	return rows
}

// SearchResult represents one search hit.
type SearchResult struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Snippet  string `json:"snippet"`
}

// CategoryCount is the number of examples in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Replace swaps the whole index content for rows in one transaction.
// The index mirrors the latest manifest, so nothing from a previous build survives.
func (db *DB) Replace(rows []ExampleRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM examples`); err != nil {
		return fmt.Errorf("index: clear examples: %w", err)
	}
	if err := ftsReset(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO examples (slug, title, category, description, icon, code, output, try_items, path, built_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		tryItems := r.TryItems
		if tryItems == nil {
			tryItems = []string{}
		}
		tryJSON, _ := json.Marshal(tryItems)

		if _, err := stmt.Exec(r.Slug, r.Title, r.Category, r.Description, r.Icon,
			r.Code, r.Output, string(tryJSON), r.Path, r.BuiltAt); err != nil {
			return fmt.Errorf("index: insert %s: %w", r.Slug, err)
		}
		if err := ftsInsert(tx, r); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed examples.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM examples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Categories returns every non-empty category with its example count,
// ordered by category name.
func (db *DB) Categories() ([]CategoryCount, error) {
	rows, err := db.conn.Query(`
		SELECT category, count(*)
		FROM examples
		WHERE category != ''
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("index: categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
