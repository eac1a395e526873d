package storage

import (
	"context"
	"fmt"
	"io"

	"automed-dashboard/internal/adapters/storage/firebase"
	"automed-dashboard/internal/adapters/storage/memory"
	"automed-dashboard/internal/adapters/storage/postgres"
	"automed-dashboard/internal/adapters/storage/sqlite"
	"automed-dashboard/internal/config"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/docstore"
)

// Store es el docstore abierto más su cierre.
type Store interface {
	docstore.Store
	io.Closer
}

// Open elige el adapter según STORE_DRIVER.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory, "":
		return memory.NewStore(), nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		return postgres.NewStore(db), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewStore(db), nil

	case config.DriverFirebase:
		s, err := firebase.New(firebase.Config{
			DatabaseURL: cfg.FirebaseDatabaseURL,
			Auth:        cfg.FirebaseAuth,
			Logger:      log,
		})
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
