// Package config provides configuration management for labstore.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Lock    LockConfig    `mapstructure:"lock"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StorageConfig selects and configures the key-value backend the document
// persists to.
type StorageConfig struct {
	// Backend is one of: memory, sqlite, postgres, redis, s3.
	Backend string `mapstructure:"backend"`

	// Key is the storage slot the document lives under.
	Key string `mapstructure:"key"`

	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	S3       S3Config       `mapstructure:"s3"`
}

// SQLiteConfig holds SQLite backend settings.
type SQLiteConfig struct {
	Path            string `mapstructure:"path"`
	JournalMode     string `mapstructure:"journal_mode"`
	BusyTimeout     int    `mapstructure:"busy_timeout"`
	SynchronousMode string `mapstructure:"synchronous_mode"`
}

// PostgresConfig holds PostgreSQL backend settings.
type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig holds Redis connection settings, shared by the redis storage
// backend and the redis locker.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// S3Config holds S3 backend settings.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SharedPassword is the single lab-wide credential, compared in
	// constant time. Ignored when SharedPasswordHash is set.
	SharedPassword string `mapstructure:"shared_password"`

	// SharedPasswordHash is an optional bcrypt hash of the shared
	// credential. When set it takes precedence over SharedPassword.
	SharedPasswordHash string `mapstructure:"shared_password_hash"`

	// PrivilegedEmails are the addresses provisioned as staff accounts at
	// bootstrap, and the only unknown addresses the authenticator will
	// provision on the fly.
	PrivilegedEmails []string `mapstructure:"privileged_emails"`
}

// LockConfig holds mutation-serialization settings.
type LockConfig struct {
	// Backend is one of: memory, redis, noop.
	Backend string `mapstructure:"backend"`

	// TTL is how long an acquired document lock lives before expiring.
	TTL time.Duration `mapstructure:"ttl"`

	// RetryDelay and MaxRetries shape lock acquisition under contention.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if metrics collection is active.
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the specified file and environment
// variables. Environment variables take precedence over file values and are
// prefixed with LABSTORE_, using _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LABSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/labstore")
	}

	// Config file not found is acceptable - defaults and env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.key", "isaacLabData")
	v.SetDefault("storage.sqlite.path", "./data/labstore.db")
	v.SetDefault("storage.sqlite.journal_mode", "WAL")
	v.SetDefault("storage.sqlite.busy_timeout", 5000)
	v.SetDefault("storage.sqlite.synchronous_mode", "NORMAL")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "labstore")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.database", "labstore")
	v.SetDefault("storage.postgres.ssl_mode", "prefer")
	v.SetDefault("storage.postgres.max_open_conns", 5)
	v.SetDefault("storage.postgres.max_idle_conns", 2)
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.pool_size", 10)
	v.SetDefault("storage.redis.dial_timeout", 5*time.Second)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.prefix", "labstore")

	// Auth defaults
	v.SetDefault("auth.shared_password", "ralab")
	v.SetDefault("auth.shared_password_hash", "")
	v.SetDefault("auth.privileged_emails", []string{
		"staff@issacasimov.in",
		"admin@issacasimov.in",
	})

	// Lock defaults
	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.ttl", 10*time.Second)
	v.SetDefault("lock.retry_delay", 50*time.Millisecond)
	v.SetDefault("lock.max_retries", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	validBackends := map[string]bool{
		"memory": true, "sqlite": true, "postgres": true, "redis": true, "s3": true,
	}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("storage.backend must be one of: memory, sqlite, postgres, redis, s3")
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required for sqlite backend")
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required for postgres backend")
		}
		if c.Storage.Postgres.Database == "" {
			return fmt.Errorf("storage.postgres.database is required for postgres backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for s3 backend")
		}
	}

	if c.Auth.SharedPassword == "" && c.Auth.SharedPasswordHash == "" {
		return fmt.Errorf("auth.shared_password or auth.shared_password_hash is required")
	}
	if len(c.Auth.PrivilegedEmails) == 0 {
		return fmt.Errorf("auth.privileged_emails must not be empty")
	}

	validLockers := map[string]bool{"memory": true, "redis": true, "noop": true}
	if !validLockers[c.Lock.Backend] {
		return fmt.Errorf("lock.backend must be one of: memory, redis, noop")
	}
	if c.Lock.Backend == "redis" && c.Storage.Redis.Host == "" {
		return fmt.Errorf("storage.redis.host is required for redis locker")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
