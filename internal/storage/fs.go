package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/exampledeck/internal/models"
)

// FSSource implements Source over any fs.FS. Only regular files directly
// under the root are listed.
type FSSource struct {
	fsys  fs.FS
	match *Matcher
}

// NewFSSource creates a Source reading from fsys. A nil matcher accepts
// names matching DefaultInclude.
func NewFSSource(fsys fs.FS, match *Matcher) *FSSource {
	if match == nil {
		match, _ = NewMatcher(nil, nil)
	}
	return &FSSource{fsys: fsys, match: match}
}

// List returns metadata for every matching file, sorted by name.
func (s *FSSource) List() ([]models.SourceFile, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := make([]models.SourceFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !s.match.Match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		out = append(out, models.SourceFile{
			Name:    e.Name(),
			ID:      FileID(e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read returns the raw bytes of the named file.
func (s *FSSource) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Matches reports whether name would be listed by this source.
func (s *FSSource) Matches(name string) bool {
	return s.match.Match(name)
}

// FileID returns the base name of a source file without its extension.
func FileID(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Dir is a directory on the local file system. It serves as a Source for
// example files and as a Sink for build output.
type Dir struct {
	*FSSource
	root string // absolute path
}

// NewDir creates a Dir rooted at the given directory.
// The directory must already exist.
func NewDir(root string, match *Matcher) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Dir{FSSource: NewFSSource(os.DirFS(abs), match), root: abs}, nil
}

// Root returns the absolute root path.
func (d *Dir) Root() string {
	return d.root
}

// safePath resolves a relative path against the root and rejects any result
// that escapes it.
func (d *Dir) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(d.root, cleaned)
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (d *Dir) Write(rel string, content []byte) error {
	abs, err := d.safePath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".exampledeck-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
