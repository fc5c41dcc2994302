package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/cartwise/backend/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Detection DetectionConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// StoreConfig holds list/settings persistence configuration
type StoreConfig struct {
	Type string `mapstructure:"type"` // "memory" or "sqlite"
	Path string `mapstructure:"path"`
}

// DetectionConfig holds the comparison settings applied to users without saved settings
type DetectionConfig struct {
	Option               string  `mapstructure:"option"`
	CustomDays           int     `mapstructure:"custom_days"` // 0 means no day limit
	IncludeCompleted     bool    `mapstructure:"include_completed"`
	SimilarityThreshold  float64 `mapstructure:"similarity_threshold"`
	CheckDifferentStores bool    `mapstructure:"check_different_stores"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// Settings converts the detection defaults into comparison settings
func (d DetectionConfig) Settings() domain.ComparisonSettings {
	s := domain.ComparisonSettings{
		Option:               domain.CompareOption(d.Option),
		IncludeCompleted:     d.IncludeCompleted,
		SimilarityThreshold:  d.SimilarityThreshold,
		CheckDifferentStores: d.CheckDifferentStores,
	}
	if d.CustomDays != 0 {
		s.CustomDays = domain.Days(d.CustomDays)
	}
	return s
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartwise/")

	// Environment variable settings
	v.SetEnvPrefix("CARTWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.path", "cartwise.db")

	// Detection defaults
	defaults := domain.DefaultComparisonSettings()
	v.SetDefault("detection.option", string(defaults.Option))
	v.SetDefault("detection.custom_days", 0)
	v.SetDefault("detection.include_completed", defaults.IncludeCompleted)
	v.SetDefault("detection.similarity_threshold", defaults.SimilarityThreshold)
	v.SetDefault("detection.check_different_stores", defaults.CheckDifferentStores)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "memory" && config.Store.Type != "sqlite" {
		return fmt.Errorf("store type must be 'memory' or 'sqlite', got: %s", config.Store.Type)
	}

	if config.Store.Type == "sqlite" && config.Store.Path == "" {
		return fmt.Errorf("store path is required when store type is 'sqlite'")
	}

	if config.Detection.CustomDays < 0 {
		return fmt.Errorf("detection custom_days cannot be negative, got: %d", config.Detection.CustomDays)
	}

	if err := config.Detection.Settings().Validate(); err != nil {
		return fmt.Errorf("detection defaults: %w", err)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
