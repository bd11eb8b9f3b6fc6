package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/db"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/migrate"
)

// Opened is the store selected by STOREFRONT_STORAGE_DRIVER. DB is set only for
// the sql driver and must be closed by the caller.
type Opened struct {
	Store Store
	SQL   *SQLStore
	DB    *db.Client
}

// Close releases the database handle when one was opened.
func (o Opened) Close() error {
	if o.DB == nil {
		return nil
	}
	return o.DB.Close()
}

// Open builds the configured driver. The redis driver reuses rc.
func Open(ctx context.Context, cfg *config.Config, rc redisClient, logg *logger.Logger) (Opened, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverRedis:
		if rc == nil {
			return Opened{}, fmt.Errorf("redis storage requires a redis client")
		}
		return Opened{Store: NewRedisStore(rc)}, nil
	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return Opened{}, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return Opened{}, fmt.Errorf("dev migrations: %w", err)
		}
		sqlStore := NewSQLStore(client.DB())
		return Opened{Store: sqlStore, SQL: sqlStore, DB: client}, nil
	case config.StorageDriverMemory:
		if cfg.App.IsProd() {
			return Opened{}, fmt.Errorf("storage driver %q is not allowed in %s", cfg.Storage.Driver, cfg.App.Env)
		}
		logg.Warn(logg.WithField(ctx, "driver", cfg.Storage.Driver), "storage.memory_driver_not_shared")
		return Opened{Store: NewMemoryStore()}, nil
	}
	return Opened{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
