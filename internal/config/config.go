package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds the HTTP API listener settings
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// InventoryConfig holds settings for the upstream inventory-listing site
type InventoryConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`
	QuotaCooldown        time.Duration `mapstructure:"quota_cooldown"`
	ItemSelector         string        `mapstructure:"item_selector"`
}

// DatabaseConfig holds the reference price store connection.
// Driver is "postgres" or "sqlite"; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Name           string        `mapstructure:"name"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Path           string        `mapstructure:"path"`
	MaxConns       int           `mapstructure:"max_conns"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

// DSN builds the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable pool_max_conns=%d",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.MaxConns,
	)
}

// RedisConfig holds the optional response cache connection
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MatchingConfig tunes the catalog matcher.
type MatchingConfig struct {
	// ChunkSize bounds the number of names per exact-lookup query.
	ChunkSize int `mapstructure:"chunk_size"`
	// FallbackEnabled turns on the substring lookup for unmatched agents.
	FallbackEnabled bool `mapstructure:"fallback_enabled"`
	// DegradeOnStoreFailure returns unpriced rows instead of an error when the store is down.
	DegradeOnStoreFailure bool `mapstructure:"degrade_on_store_failure"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file with environment variable overrides
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// Default returns the configuration with only defaults applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("invalid default configuration: %v", err))
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Matching.ChunkSize <= 0 {
		return fmt.Errorf("matching.chunk_size must be positive, got %d", c.Matching.ChunkSize)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	if c.Inventory.MaxRequestsPerSecond <= 0 {
		return fmt.Errorf("inventory.max_requests_per_second must be positive, got %d", c.Inventory.MaxRequestsPerSecond)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("inventory.base_url", "https://inventory.example.com")
	v.SetDefault("inventory.timeout", 30*time.Second)
	v.SetDefault("inventory.max_retries", 3)
	v.SetDefault("inventory.max_requests_per_second", 2)
	v.SetDefault("inventory.proxies", []string{})
	v.SetDefault("inventory.quota_cooldown", 10*time.Minute)
	v.SetDefault("inventory.item_selector", "div.inventory-item")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "skinpricer")
	v.SetDefault("database.user", "skinpricer")
	v.SetDefault("database.password", "skinpricer")
	v.SetDefault("database.path", "./data/prices.db")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.acquire_timeout", 5*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.cache_ttl", 5*time.Minute)

	v.SetDefault("matching.chunk_size", 200)
	v.SetDefault("matching.fallback_enabled", true)
	v.SetDefault("matching.degrade_on_store_failure", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
