package main

import (
	"fmt"

	"concert-storefront/internal/config"
	"concert-storefront/internal/database"
	"concert-storefront/internal/repositories"
)

// redisNamespace prefixes every key the box office writes to Redis
const redisNamespace = "storefront"

// openStorage returns the local storage selected by the configured driver
// and a function releasing it.
func openStorage(cfg config.StorageConfig) (repositories.LocalStorage, func() error, error) {
	switch cfg.Driver {
	case config.StorageSQLite:
		db, err := database.NewConnection(database.Config{Path: cfg.Path})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite storage: %w", err)
		}
		return repositories.NewSQLiteStorage(db.DB), db.Close, nil

	case config.StorageRedis:
		client := repositories.NewRedisClient(cfg.RedisAddr)
		return repositories.NewRedisStorage(client, redisNamespace), client.Close, nil

	case config.StorageMemory:
		return repositories.NewMemoryStorage(), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
