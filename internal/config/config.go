// Package config loads the TOML configuration file shared by the CLI and
// the API server.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"ftl_checker/internal/airports"
	"ftl_checker/internal/compliance"
	"ftl_checker/internal/storage"
)

// Config is the top-level configuration.
type Config struct {
	DefaultTimezone string `toml:"default_timezone"`
	Language        string `toml:"language"`

	Server  ServerConfig      `toml:"server"`
	Storage StorageConfig     `toml:"storage"`
	NATS    NATSConfig        `toml:"nats"`
	Logging LoggingConfig     `toml:"logging"`
	Limits  compliance.Limits `toml:"limits"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig holds the connection settings for all three stores.
type StorageConfig struct {
	SQLitePath string           `toml:"sqlite_path"`
	Postgres   PostgresConfig   `toml:"postgres"`
	ClickHouse ClickHouseConfig `toml:"clickhouse"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// NATSConfig holds the roster ingest subscription settings.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// Default returns the built-in configuration used when no file is given.
// The regulatory limit table always starts from the defaults; a [limits]
// section in the file overrides individual thresholds only.
func Default() Config {
	dbCfg := storage.DefaultConfig()
	return Config{
		DefaultTimezone: airports.DefaultZone,
		Language:        "en",
		Server:          ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			SQLitePath: "rosters.db",
			Postgres: PostgresConfig{
				Host:     dbCfg.Postgres.Host,
				Port:     dbCfg.Postgres.Port,
				Database: dbCfg.Postgres.Database,
				User:     dbCfg.Postgres.User,
				Password: dbCfg.Postgres.Password,
			},
			ClickHouse: ClickHouseConfig{
				Host:     dbCfg.ClickHouse.Host,
				Port:     dbCfg.ClickHouse.Port,
				Database: dbCfg.ClickHouse.Database,
				User:     dbCfg.ClickHouse.User,
				Password: dbCfg.ClickHouse.Password,
			},
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "rosters.inbound",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Limits:  compliance.DefaultLimits(),
	}
}

// Load reads a TOML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// StorageConfigFor converts the file representation into the storage
// package's connection config.
func (c Config) StorageConfigFor() storage.Config {
	return storage.Config{
		Postgres: storage.PostgresConfig{
			Host:     c.Storage.Postgres.Host,
			Port:     c.Storage.Postgres.Port,
			Database: c.Storage.Postgres.Database,
			User:     c.Storage.Postgres.User,
			Password: c.Storage.Postgres.Password,
		},
		ClickHouse: storage.ClickHouseConfig{
			Host:     c.Storage.ClickHouse.Host,
			Port:     c.Storage.ClickHouse.Port,
			Database: c.Storage.ClickHouse.Database,
			User:     c.Storage.ClickHouse.User,
			Password: c.Storage.ClickHouse.Password,
		},
	}
}
