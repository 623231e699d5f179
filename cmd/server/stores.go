package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/config"
	"github.com/iliyamo/homebase-finder/internal/database"
	"github.com/iliyamo/homebase-finder/internal/kv"
)

// openSQL opens the configured SQL backend and applies migrations.
func openSQL(c config.Config) (*sql.DB, kv.Dialect, error) {
	switch c.StorageBackend {
	case config.BackendMySQL:
		db, err := database.OpenMySQL(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
		if err != nil {
			return nil, kv.Dialect{}, err
		}
		if err := database.Migrate(db, "mysql"); err != nil {
			db.Close()
			return nil, kv.Dialect{}, err
		}
		return db, kv.MySQL, nil
	case config.BackendSQLite:
		db, err := database.OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, kv.Dialect{}, err
		}
		if err := database.Migrate(db, "sqlite"); err != nil {
			db.Close()
			return nil, kv.Dialect{}, err
		}
		return db, kv.SQLite, nil
	}
	return nil, kv.Dialect{}, fmt.Errorf("backend %q is not SQL", c.StorageBackend)
}

// openStore builds the kv.Store for STORAGE_BACKEND.  rdb may be nil unless
// the backend is redis.
func openStore(c config.Config, rdb *redis.Client) (kv.Store, error) {
	switch c.StorageBackend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend selected but redis is unavailable")
		}
		return kv.NewRedisStore(rdb, c.KVPrefix), nil
	case config.BackendMySQL, config.BackendSQLite:
		db, dialect, err := openSQL(c)
		if err != nil {
			return nil, err
		}
		return kv.NewSQLStore(db, dialect), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
}

// connectRedis returns nil when Redis is not needed or not reachable and
// the backend can do without it.
func connectRedis(ctx context.Context, c config.Config, log *zap.Logger) (*redis.Client, error) {
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err == nil {
		return rdb, nil
	}
	if c.StorageBackend == config.BackendRedis {
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Warn("redis unavailable; cache and rate limiting disabled", zap.Error(err))
	return nil, nil
}
