package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory  = "memory"
	StorageMongoDB = "mongodb"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Rewards RewardsConfig
	Seed    SeedConfig
	Log     LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	Mode            string // gin mode: release, debug or test
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig holds Redis-specific configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RewardsConfig holds rewards-calculation settings
type RewardsConfig struct {
	WindowMonths int // Length of the default reporting window
}

// SeedConfig controls sample-data seeding on startup
type SeedConfig struct {
	Enabled bool
	LockTTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // json or text
}

// Load loads configuration from environment variables and config files.
// Environment variables use the upper-cased key with dots replaced by
// underscores, e.g. MONGODB_URI or REWARDS_WINDOWMONTHS.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("config: Server.Port must not be empty")
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageMongoDB:
	default:
		return fmt.Errorf("config: unknown Storage.Driver %q (want %q or %q)", c.Storage.Driver, StorageMemory, StorageMongoDB)
	}
	if c.Storage.Driver == StorageMongoDB && c.MongoDB.URI == "" {
		return errors.New("config: MongoDB.URI is required for the mongodb driver")
	}
	if c.Rewards.WindowMonths <= 0 {
		return fmt.Errorf("config: Rewards.WindowMonths must be positive, got %d", c.Rewards.WindowMonths)
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("Server.AllowedOrigins", []string{"*"})
	v.SetDefault("Server.ReadTimeout", 10*time.Second)
	v.SetDefault("Server.WriteTimeout", 15*time.Second)
	v.SetDefault("Server.ShutdownTimeout", 5*time.Second)
	v.SetDefault("Storage.Driver", StorageMemory)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "rewards")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)
	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Rewards.WindowMonths", 3)
	v.SetDefault("Seed.Enabled", true)
	v.SetDefault("Seed.LockTTL", 30*time.Second)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "json")
}
