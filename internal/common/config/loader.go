// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like ROLE_AUTHORITY_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1️⃣ LOAD BASE CONFIG
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2️⃣ LOAD ENV CONFIG
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	// 3️⃣ EXPAND ENV PLACEHOLDERS
	expandEnvVars(viper.GetViper())

	// 4️⃣ Unmarshal final config
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// 5️⃣ DIRECT OVERRIDE IF STILL EMPTY
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations
func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",          // Current directory
		"../.env",       // Parent directory
		"../../.env",    // Two levels up (for tests in test/e2e/)
		"../../../.env", // Three levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("✅ Loaded .env from: %s\n", path)
				return
			}
		}
	}

	fmt.Printf("⚠️  .env file not found in any location, using system environment variables\n")
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Walk up directories looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// Improved environment variable expansion
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		// Only process string values
		if strVal, ok := val.(string); ok {
			// Check if it contains environment variable pattern
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	// Store / queue / rules targets
	if cfg.Store.TableName == "" {
		if val := os.Getenv("STORE_TABLE_NAME"); val != "" {
			cfg.Store.TableName = val
		}
	}
	if cfg.Queue.URL == "" {
		if val := os.Getenv("QUEUE_URL"); val != "" {
			cfg.Queue.URL = val
		}
	}
	if cfg.Rules.SearchWorkerARN == "" {
		if val := os.Getenv("SEARCH_WORKER_ARN"); val != "" {
			cfg.Rules.SearchWorkerARN = val
		}
	}

	// Role authority
	if cfg.RoleAuthority.BaseURL == "" {
		if val := os.Getenv("ROLE_AUTHORITY_BASE_URL"); val != "" {
			cfg.RoleAuthority.BaseURL = val
		}
	}
	if cfg.RoleAuthority.APIKey == "" {
		if val := os.Getenv("ROLE_AUTHORITY_API_KEY"); val != "" {
			cfg.RoleAuthority.APIKey = val
		}
	}

	// Redis
	if cfg.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Redis.Address = val
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}

	// Alerts
	if cfg.Alerts.TopicARN == "" {
		if val := os.Getenv("ALERTS_TOPIC_ARN"); val != "" {
			cfg.Alerts.TopicARN = val
		}
	}

	// AWS region
	if cfg.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.AWS.Region = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile() // Load env file first

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Expand environment variables before unmarshal
	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// AWS defaults
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "eu-north-1"
	}

	// Queue defaults
	if cfg.Queue.WaitTimeSeconds == 0 {
		cfg.Queue.WaitTimeSeconds = 20
	}
	if cfg.Queue.MaxMessages == 0 {
		cfg.Queue.MaxMessages = 10
	}

	// Sweep defaults
	if cfg.Sweep.Cron == "" {
		cfg.Sweep.Cron = "0 * * * *"
	}
	if cfg.Sweep.DailyHour == 0 {
		cfg.Sweep.DailyHour = 12
	}
	if cfg.Sweep.Concurrency == 0 {
		cfg.Sweep.Concurrency = 8
	}
	if cfg.Sweep.Timeout == 0 {
		cfg.Sweep.Timeout = 300000
	}
	if cfg.Sweep.RecordTimeout == 0 {
		cfg.Sweep.RecordTimeout = 10000
	}

	// Rule rebuild defaults
	if cfg.Rules.Cron == "" {
		cfg.Rules.Cron = "0 4 * * *"
	}
	if cfg.Rules.DailyHour == 0 {
		cfg.Rules.DailyHour = 10
	}
	if cfg.Rules.ProtectedMarker == "" {
		cfg.Rules.ProtectedMarker = "gregi"
	}
	if cfg.Rules.LockKey == "" {
		cfg.Rules.LockKey = "tender-scheduler:rule-rebuild:lease"
	}
	if cfg.Rules.LockTTL == 0 {
		cfg.Rules.LockTTL = 300000
	}
	if cfg.Rules.Timeout == 0 {
		cfg.Rules.Timeout = 600000
	}

	// Reconcile defaults
	if cfg.Reconcile.Cron == "" {
		cfg.Reconcile.Cron = "30 3 * * *"
	}
	if cfg.Reconcile.Concurrency == 0 {
		cfg.Reconcile.Concurrency = 4
	}
	if len(cfg.Reconcile.AuthorizedRoles) == 0 {
		cfg.Reconcile.AuthorizedRoles = []string{"customer", "administrator"}
	}
	if cfg.Reconcile.Timeout == 0 {
		cfg.Reconcile.Timeout = 600000
	}
	if cfg.Reconcile.RecordTimeout == 0 {
		cfg.Reconcile.RecordTimeout = 10000
	}

	// Consumer defaults
	if cfg.Consumer.RecordTimeout == 0 {
		cfg.Consumer.RecordTimeout = 15000
	}
	if cfg.Consumer.ErrorPause == 0 {
		cfg.Consumer.ErrorPause = 5000
	}

	// Role authority defaults
	if cfg.RoleAuthority.Timeout == 0 {
		cfg.RoleAuthority.Timeout = 10000
	}

	// Schedule defaults
	if cfg.Schedule.UTCOffsetHours == 0 {
		cfg.Schedule.UTCOffsetHours = 2
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Store.TableName == "" {
		return fmt.Errorf("store.table_name is required")
	}

	if cfg.Queue.URL == "" {
		return fmt.Errorf("queue.url is required")
	}

	if cfg.Rules.Enabled {
		if cfg.Rules.SearchWorkerARN == "" {
			return fmt.Errorf("rules.search_worker_arn is required when rules are enabled")
		}
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when rules are enabled")
		}
	}

	if cfg.Reconcile.Enabled && cfg.RoleAuthority.BaseURL == "" {
		return fmt.Errorf("role_authority.base_url is required when reconcile is enabled")
	}

	if cfg.Consumer.Enabled && cfg.Rules.SearchWorkerARN == "" {
		return fmt.Errorf("rules.search_worker_arn is required when the consumer is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
