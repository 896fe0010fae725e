//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS examples_fts USING fts5(
			slug UNINDEXED,
			title,
			description,
			code,
			try_items,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsReset(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM examples_fts`); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	return nil
}

func ftsInsert(tx *sql.Tx, r ExampleRow) error {
	_, err := tx.Exec(`INSERT INTO examples_fts (slug, title, description, code, try_items) VALUES (?, ?, ?, ?, ?)`,
		r.Slug, r.Title, r.Description, r.Code, strings.Join(r.TryItems, "\n"))
	if err != nil {
		return fmt.Errorf("index: insert fts %s: %w", r.Slug, err)
	}
	return nil
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.slug,
		       f.title,
		       e.category,
		       snippet(examples_fts, 3, '<b>', '</b>', '...', 32)
		FROM examples_fts f
		JOIN examples e ON e.slug = f.slug
		WHERE examples_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
