// Package storage defines the source and output file-system abstractions.
package storage

import "github.com/starford/exampledeck/internal/models"

// Source lists and reads example source files.
type Source interface {
	// List returns every matching file in the source root, sorted by name.
	List() ([]models.SourceFile, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
}

// Sink receives build artifacts.
type Sink interface {
	// Write atomically writes content to path (relative to the output root).
	Write(path string, content []byte) error
}
