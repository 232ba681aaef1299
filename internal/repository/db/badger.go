package db

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
)

// OpenBadger opens a Badger store in dir. An empty dir opens an in-memory store.
func OpenBadger(dir string) (*badger.DB, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve badger dir %q: %w", dir, err)
		}
		opts = badger.DefaultOptions(absPath)
	}
	opts.Logger = nil // badger's own logger is too chatty

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return bdb, nil
}
