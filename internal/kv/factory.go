package kv

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/issacasimov/labstore/internal/config"
)

// Open creates the key-value backend selected by the configuration.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		return NewSQLiteStore(ctx, SQLiteConfig{
			Path:            cfg.SQLite.Path,
			JournalMode:     cfg.SQLite.JournalMode,
			BusyTimeout:     cfg.SQLite.BusyTimeout,
			SynchronousMode: cfg.SQLite.SynchronousMode,
		}, logger)

	case "postgres":
		return NewPostgresStore(ctx, PostgresConfig{
			Host:         cfg.Postgres.Host,
			Port:         cfg.Postgres.Port,
			User:         cfg.Postgres.User,
			Password:     cfg.Postgres.Password,
			Database:     cfg.Postgres.Database,
			SSLMode:      cfg.Postgres.SSLMode,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		}, logger)

	case "redis":
		return NewRedisStore(ctx, RedisConfig{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)

	case "s3":
		return NewS3Store(ctx, S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, logger)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
