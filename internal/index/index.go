package index

// FoodIndex defines the interface for food indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type FoodIndex interface {
	UpsertFood(f FoodRow) error
	DeleteFood(key string) error
	GetChecksum(key string) (string, error)
	AllChecksums() (map[string]string, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies FoodIndex at compile time.
var _ FoodIndex = (*DB)(nil)
