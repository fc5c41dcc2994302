package config

import (
	"os"
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

var configEnvVars = []string{
	"CARTWISE_SERVER_PORT",
	"CARTWISE_SERVER_ENVIRONMENT",
	"CARTWISE_LOG_LEVEL",
	"CARTWISE_LOG_FORMAT",
	"CARTWISE_STORE_TYPE",
	"CARTWISE_STORE_PATH",
	"CARTWISE_DETECTION_OPTION",
	"CARTWISE_DETECTION_CUSTOM_DAYS",
	"CARTWISE_DETECTION_INCLUDE_COMPLETED",
	"CARTWISE_DETECTION_SIMILARITY_THRESHOLD",
	"CARTWISE_DETECTION_CHECK_DIFFERENT_STORES",
	"CARTWISE_RATELIMIT_PER_IP",
	"CARTWISE_RATELIMIT_BURST",
}

// chdirTemp moves the test into an empty directory so no config.yaml or .env is picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalDir) })
	os.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		for _, k := range configEnvVars {
			os.Unsetenv(k)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
		if cfg.Detection.Option != "last-3" {
			t.Errorf("Detection.Option = %s, want last-3", cfg.Detection.Option)
		}
		if cfg.Detection.SimilarityThreshold != 0.8 {
			t.Errorf("Detection.SimilarityThreshold = %v, want 0.8", cfg.Detection.SimilarityThreshold)
		}
		if cfg.Detection.IncludeCompleted {
			t.Errorf("Detection.IncludeCompleted = true, want false")
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("CARTWISE_SERVER_PORT", "9090")
		os.Setenv("CARTWISE_SERVER_ENVIRONMENT", "production")
		os.Setenv("CARTWISE_STORE_TYPE", "sqlite")
		os.Setenv("CARTWISE_STORE_PATH", "/var/lib/cartwise/lists.db")
		os.Setenv("CARTWISE_DETECTION_OPTION", "custom")
		os.Setenv("CARTWISE_DETECTION_CUSTOM_DAYS", "14")
		os.Setenv("CARTWISE_DETECTION_SIMILARITY_THRESHOLD", "0.7")
		os.Setenv("CARTWISE_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Store.Type != "sqlite" {
			t.Errorf("Store.Type = %s, want sqlite", cfg.Store.Type)
		}
		if cfg.Store.Path != "/var/lib/cartwise/lists.db" {
			t.Errorf("Store.Path = %s, want /var/lib/cartwise/lists.db", cfg.Store.Path)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}

		settings := cfg.Detection.Settings()
		if settings.Option != domain.CompareCustom {
			t.Errorf("Option = %s, want custom", settings.Option)
		}
		if settings.CustomDays == nil || *settings.CustomDays != 14 {
			t.Errorf("CustomDays = %v, want 14", settings.CustomDays)
		}
		if settings.SimilarityThreshold != 0.7 {
			t.Errorf("SimilarityThreshold = %v, want 0.7", settings.SimilarityThreshold)
		}
	})

	t.Run("fails validation for invalid store type", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("CARTWISE_STORE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid store type")
		}
	})

	t.Run("fails validation for out of range threshold", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("CARTWISE_DETECTION_SIMILARITY_THRESHOLD", "1.5")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for threshold above 1")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		defer os.Unsetenv("TEST_VAR_1")
		defer os.Unsetenv("TEST_VAR_2")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{Type: "memory"},
			Detection: DetectionConfig{
				Option:              "last-3",
				SimilarityThreshold: 0.8,
			},
		}
	}

	t.Run("validates successfully with defaults", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid store type", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Type = "invalid-type"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid store type")
		}
	})

	t.Run("fails for sqlite store without path", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Type = "sqlite"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for sqlite without path")
		}
	})

	t.Run("fails for unknown comparison option", func(t *testing.T) {
		cfg := valid()
		cfg.Detection.Option = "last-7"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for unknown option")
		}
	})

	t.Run("fails for negative custom days", func(t *testing.T) {
		cfg := valid()
		cfg.Detection.Option = "custom"
		cfg.Detection.CustomDays = -3
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative custom days")
		}
	})
}

func TestDetectionConfigSettings(t *testing.T) {
	t.Run("zero custom days means no limit", func(t *testing.T) {
		s := DetectionConfig{Option: "custom", SimilarityThreshold: 0.8}.Settings()
		if s.CustomDays != nil {
			t.Errorf("CustomDays = %v, want nil", *s.CustomDays)
		}
	})
}
