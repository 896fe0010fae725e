package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/liamg/memoryfs"
)

func tempDir(t *testing.T, match *Matcher) *Dir {
	t.Helper()
	d, err := NewDir(t.TempDir(), match)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return d
}

func TestWriteAndRead(t *testing.T) {
	d := tempDir(t, nil)
	content := []byte(`{"title":"Hello"}`)
	if err := d.Write("hello.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := d.Read("hello.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	d := tempDir(t, nil)
	if err := d.Write("examples/deep.json", []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.Root(), "examples", "deep.json")); err != nil {
		t.Errorf("stat: %v", err)
	}
}

func TestWriteOverwrites(t *testing.T) {
	d := tempDir(t, nil)
	_ = d.Write("m.json", []byte("old"))
	if err := d.Write("m.json", []byte("new")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := d.Read("m.json")
	if string(got) != "new" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(d.Root())
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	d := tempDir(t, nil)
	_ = d.Write("b.md", []byte("b"))
	_ = d.Write("a.md", []byte("a"))
	_ = d.Write("readme.txt", []byte("not md"))
	_ = d.Write("sub/c.md", []byte("nested"))

	items, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "a.md" || items[1].Name != "b.md" {
		t.Errorf("order = %s, %s", items[0].Name, items[1].Name)
	}
	if items[0].ID != "a" {
		t.Errorf("id = %q, want a", items[0].ID)
	}
}

func TestListExcludePatterns(t *testing.T) {
	m, err := NewMatcher([]string{"*.md", "*.markdown"}, []string{"_*", "README.md"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	d := tempDir(t, m)
	for _, name := range []string{"keep.md", "also.markdown", "_draft.md", "README.md"} {
		_ = d.Write(name, []byte("x"))
	}
	items, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Name != "also.markdown" || items[1].Name != "keep.md" {
		t.Errorf("items = %+v", items)
	}
}

func TestNewMatcherInvalidPattern(t *testing.T) {
	if _, err := NewMatcher([]string{"[unclosed"}, nil); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestListMissingRoot(t *testing.T) {
	src := NewFSSource(os.DirFS(filepath.Join(t.TempDir(), "missing")), nil)
	if _, err := src.List(); err == nil {
		t.Error("expected error listing a missing directory")
	}
}

func TestFSSourceInMemory(t *testing.T) {
	mem := memoryfs.New()
	if err := mem.WriteFile("one.md", []byte("# one"), fs.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := mem.WriteFile("two.txt", []byte("two"), fs.ModePerm); err != nil {
		t.Fatal(err)
	}
	src := NewFSSource(mem, nil)
	items, err := src.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != "one" {
		t.Fatalf("items = %+v", items)
	}
	data, err := src.Read("one.md")
	if err != nil || string(data) != "# one" {
		t.Errorf("Read = %q, %v", data, err)
	}
}

func TestFileID(t *testing.T) {
	cases := map[string]string{
		"basic-join.md":      "basic-join",
		"dir/custom-name.md": "custom-name",
		"no-extension":       "no-extension",
		"dotted.name.md":     "dotted.name",
	}
	for in, want := range cases {
		if got := FileID(in); got != want {
			t.Errorf("FileID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	d := tempDir(t, nil)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := d.Read(p); err == nil {
			t.Errorf("expected read error for path %q", p)
		}
		if err := d.Write(p, []byte("x")); err == nil {
			t.Errorf("expected write error for path %q", p)
		}
	}
}
