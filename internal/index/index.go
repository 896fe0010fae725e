package index

// ExampleIndex defines the interface for example search operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type ExampleIndex interface {
	Replace(rows []ExampleRow) error
	Search(query string, limit int) ([]SearchResult, error)
	Categories() ([]CategoryCount, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies ExampleIndex at compile time.
var _ ExampleIndex = (*DB)(nil)
