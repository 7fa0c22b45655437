// Package config provides Viper-based configuration loading for gearopt.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	// Kind is the storage backend: "yaml" or "postgres".
	Kind string `mapstructure:"kind"`
	// Dir is the data directory for the yaml backend.
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres
// backend.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ProviderConfig holds the endpoints of the external collaborators.
type ProviderConfig struct {
	// HeroAPIURL is the base URL of the hero stat provider.
	HeroAPIURL string `mapstructure:"hero_api_url"`
	// RecognizerURL is the base URL of the gear recognition service.
	RecognizerURL string `mapstructure:"recognizer_url"`
	// Timeout bounds each request to either service.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OptimizerConfig tunes the combinatorial search.
type OptimizerConfig struct {
	// Workers overrides the worker count; 0 derives it from the CPU count.
	Workers int `mapstructure:"workers"`
	// PoolSize caps each per-slot candidate pool after heuristic pruning.
	PoolSize int `mapstructure:"pool_size"`
	// TopK is the number of ranked loadouts retained.
	TopK int `mapstructure:"top_k"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Load reads and validates the configuration file at path.
//
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("storage.kind", "yaml")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("provider.timeout", 30*time.Second)
	v.SetDefault("optimizer.pool_size", 10)
	v.SetDefault("optimizer.top_k", 50)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Kind == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateProvider(c.Provider); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateOptimizer(c.Optimizer); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Kind {
	case "yaml":
		if s.Dir == "" {
			errs = append(errs, "storage.dir must not be empty for the yaml backend")
		}
	case "postgres":
	default:
		errs = append(errs, fmt.Sprintf("storage.kind must be one of [yaml, postgres], got %q", s.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateProvider(p ProviderConfig) error {
	var errs []string
	if p.HeroAPIURL == "" {
		errs = append(errs, "provider.hero_api_url must not be empty")
	}
	if p.RecognizerURL == "" {
		errs = append(errs, "provider.recognizer_url must not be empty")
	}
	if p.Timeout <= 0 {
		errs = append(errs, "provider.timeout must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateOptimizer(o OptimizerConfig) error {
	var errs []string
	if o.Workers < 0 {
		errs = append(errs, fmt.Sprintf("optimizer.workers must be >= 0, got %d", o.Workers))
	}
	if o.PoolSize < 1 {
		errs = append(errs, fmt.Sprintf("optimizer.pool_size must be >= 1, got %d", o.PoolSize))
	}
	if o.TopK < 1 {
		errs = append(errs, fmt.Sprintf("optimizer.top_k must be >= 1, got %d", o.TopK))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", l.Format)
	}
	return nil
}
