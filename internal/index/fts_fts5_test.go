//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM examples_fts`).Scan(&count); err != nil {
		t.Fatalf("examples_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.Replace(sampleRows()); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	results, err := db.Search("innerJoin", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "basic-join" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_ReplaceClearsFTS(t *testing.T) {
	db := testDB(t)
	_ = db.Replace(sampleRows())
	_ = db.Replace(nil)

	results, err := db.Search("innerJoin", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results after replace, got %d", len(results))
	}
}
