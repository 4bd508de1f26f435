package report

import (
	"fmt"
	"path/filepath"
)

// NewStore creates a Store for the named backend. path is the run
// directory for disk and the database file for sqlite; memory ignores it.
func NewStore(backend, path string) (Store, error) {
	switch backend {
	case "", "disk":
		return NewDiskStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}

// OpenStore is NewStore with a relative path resolved against root,
// normally the config root.
func OpenStore(backend, path, root string) (Store, error) {
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return NewStore(backend, path)
}

// CloseIfSupported closes the store when the backend holds resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
