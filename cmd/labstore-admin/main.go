// Package main is the entry point for the labstore admin CLI.
// It provides the deployment-time operations of the lab inventory store:
// bootstrapping the privileged staff accounts, forcing a document
// migration, and exporting reports.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/issacasimov/labstore/internal/config"
	"github.com/issacasimov/labstore/internal/kv"
	"github.com/issacasimov/labstore/internal/lock"
	"github.com/issacasimov/labstore/internal/metrics"
	"github.com/issacasimov/labstore/internal/store"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("labstore admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "bootstrap", "stats", "export-sessions", "migrate":
		if err := runCommand(command); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runCommand builds the store from configuration and dispatches.
func runCommand(command string) error {
	cfg, err := config.Load(os.Getenv("LABSTORE_CONFIG"))
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	ctx := context.Background()

	backend, err := kv.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	locker, err := newLocker(cfg, backend)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.NewRegistry())
	}

	st := store.New(backend, store.Options{
		Key:                cfg.Storage.Key,
		Locker:             locker,
		LockTTL:            cfg.Lock.TTL,
		LockRetryDelay:     cfg.Lock.RetryDelay,
		LockMaxRetries:     cfg.Lock.MaxRetries,
		Logger:             &logger,
		Metrics:            m,
		SharedPassword:     cfg.Auth.SharedPassword,
		SharedPasswordHash: cfg.Auth.SharedPasswordHash,
		PrivilegedEmails:   cfg.Auth.PrivilegedEmails,
	})

	switch command {
	case "bootstrap":
		if err := st.Bootstrap(ctx); err != nil {
			return err
		}
		logger.Info().Msg("privileged staff accounts provisioned")
		return nil

	case "stats":
		stats := st.Stats(ctx)
		fmt.Printf("Users:        %d total, %d active, %d online\n",
			stats.TotalUsers, stats.ActiveUsers, stats.OnlineUsers)
		fmt.Printf("Logins:       %d\n", stats.TotalLogins)
		fmt.Printf("Components:   %d\n", stats.TotalComponents)
		fmt.Printf("Issues:       %d issued, %d returned, %d overdue\n",
			stats.IssuedComponents, stats.ReturnedComponents, stats.OverdueItems)
		return nil

	case "export-sessions":
		fmt.Println(st.ExportSessionsCSV(ctx))
		return nil

	case "migrate":
		// Loading runs the migration pipeline; saving persists the result
		// so old-format documents are rewritten in place.
		if err := st.Save(ctx, st.Load(ctx)); err != nil {
			return err
		}
		logger.Info().Msg("document migrated and saved")
		return nil
	}

	return fmt.Errorf("unhandled command %q", command)
}

// newLogger builds the process logger from configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// newLocker builds the document locker, reusing the storage backend's Redis
// connection when both point at Redis.
func newLocker(cfg *config.Config, backend kv.Store) (lock.Locker, error) {
	switch cfg.Lock.Backend {
	case "memory":
		return lock.NewMemoryLocker(), nil
	case "noop":
		return lock.NewNoopLocker(), nil
	case "redis":
		if rs, ok := backend.(*kv.RedisStore); ok {
			return lock.NewRedisLocker(rs.Client()), nil
		}
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Storage.Redis.Addr(),
			Password:    cfg.Storage.Redis.Password,
			DB:          cfg.Storage.Redis.DB,
			PoolSize:    cfg.Storage.Redis.PoolSize,
			DialTimeout: cfg.Storage.Redis.DialTimeout,
		})
		return lock.NewRedisLocker(client), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}
}

func printUsage() {
	fmt.Println(`labstore admin CLI

Usage:
  labstore-admin <command>

Commands:
  bootstrap        Provision the privileged staff accounts
  stats            Print system statistics
  export-sessions  Print the login-session CSV export
  migrate          Rewrite the stored document at the current schema
  version          Print version information
  help             Show this help message

Configuration is read from config.yaml (searched in ., ./configs and
/etc/labstore) and LABSTORE_* environment variables; LABSTORE_CONFIG
selects an explicit config file.`)
}
