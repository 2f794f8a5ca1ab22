// Package local owns the badger database backing register state that must
// survive a restart: the offline mutation queue and the open cart. Sale
// history and the catalog are re-fetchable caches and never land here.
package local

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	// Dir is the badger directory. Ignored when InMemory is set.
	Dir string

	// InMemory skips disk persistence entirely, for tests.
	InMemory bool
}

func Open(cfg Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir).WithSyncWrites(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	return db, nil
}
