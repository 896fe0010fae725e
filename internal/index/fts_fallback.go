//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search falls back to LIKE over the examples table.
	return nil
}

func ftsReset(_ *sql.Tx) error { return nil }

func ftsInsert(_ *sql.Tx, _ ExampleRow) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
// Title matches rank ahead of matches in the other columns.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT slug, title, category,
		       CASE WHEN description != '' THEN description ELSE substr(code, 1, 120) END
		FROM examples
		WHERE title LIKE ? OR description LIKE ? OR code LIKE ? OR try_items LIKE ?
		ORDER BY (title LIKE ?) DESC, slug
		LIMIT ?
	`, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Slug, &r.Title, &r.Category, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
