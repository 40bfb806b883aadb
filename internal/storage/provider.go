// Package storage persists yada's data files under one data directory.
package storage

// Provider is the interface for data file operations. Paths are relative to
// the data directory.
type Provider interface {
	// Root returns the absolute data directory.
	Root() string
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
}
