// Package storage elige e inicializa el backend de persistencia según la config.
package storage

import (
	"context"
	"fmt"

	"streetpaws/internal/adapters/storage/cached"
	"streetpaws/internal/adapters/storage/gormdb"
	"streetpaws/internal/adapters/storage/memory"
	"streetpaws/internal/adapters/storage/postgres"
	"streetpaws/internal/platform/config"
	"streetpaws/internal/platform/logger"
	ports "streetpaws/internal/ports/storage"
)

// Open abre el store del driver configurado y le agrega el cache de helplines.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (ports.Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(map[string]any{"module": "storage", "driver": cfg.DBDriver})

	var (
		base ports.Store
		err  error
	)
	switch cfg.DBDriver {
	case config.DriverMemory:
		base = memory.NewStore()
	case config.DriverPostgres:
		base, err = postgres.OpenStore(ctx, cfg.DBDSN)
	case config.DriverSQLite:
		base, err = gormdb.Open(gormdb.DriverSQLite, cfg.DBDSN)
	case config.DriverMySQL:
		base, err = gormdb.Open(gormdb.DriverMySQL, cfg.DBDSN)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.DBDriver)
	}
	if err != nil {
		log.Error("storage open failed", map[string]any{"err": err})
		return nil, fmt.Errorf("storage: open %s: %w", cfg.DBDriver, err)
	}

	log.Info("storage ready", nil)
	return cached.Wrap(base, cfg.HelplineCacheTTL), nil
}
