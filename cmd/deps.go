package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/config"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/storage"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

// openDB opens the configured database, creating the SQLite directory if needed.
func openDB() (*storage.DB, error) {
	if cfg.DBDriver == storage.DriverSQLite && cfg.DBDSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.OpenWith(storage.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newService wires the cohort cache selected by config in front of db.
// The returned cleanup closes any cache connection.
func newService(ctx context.Context, db *storage.DB, metrics *telemetry.Metrics) (*service.Service, func(), error) {
	var (
		cache   cohort.Cache
		cleanup = func() {}
	)
	switch cfg.CacheBackend {
	case config.CacheRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, cohorts will be recomputed on every request")
		}
		cache = cohort.NewRedisCache(client, cfg.RedisPrefix, log, metrics)
		cleanup = func() { client.Close() }
	default:
		cache = cohort.NewMemoryCache(cohort.WithObserver(metrics))
	}

	provider := cohort.NewProvider(db, cache, cfg.CohortTTL, cfg.TeamID)
	return service.New(db, provider, log), cleanup, nil
}
