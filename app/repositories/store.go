package repositories

import (
	"context"
	"fmt"
	"log"

	"qastore/config"

	"github.com/dgraph-io/badger/v4"
)

// Connect opens the store selected by cfg. The port is only used by the
// mongo backend.
func Connect(ctx context.Context, cfg config.StoreConfig, port int) (Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		return NewMongoStore(ctx, fmt.Sprintf("mongodb://%s:%d", cfg.Host, port), cfg.Database, cfg.Timeout)
	case config.BackendEmbedded:
		log.Printf("Using embedded store at %s (port %d ignored)", cfg.EmbeddedPath, port)
		opts := badger.DefaultOptions(cfg.EmbeddedPath).
			WithLogger(nil).
			WithNumVersionsToKeep(1)
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded store: %w", err)
		}
		return NewBadgerStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
