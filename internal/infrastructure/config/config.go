package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "tailorcv/internal/shared/config"
)

type Config struct {
	Server sharedConfig.ServerConfig `mapstructure:"server"`
	Logger sharedConfig.LoggerConfig `mapstructure:"logger"`
	Auth   sharedConfig.AuthConfig   `mapstructure:"auth"`
	Stripe sharedConfig.StripeConfig `mapstructure:"stripe"`
	AI     sharedConfig.AIConfig     `mapstructure:"ai"`
	Quota  sharedConfig.QuotaConfig  `mapstructure:"quota"`
	Store  sharedConfig.StoreConfig  `mapstructure:"store"`
	Redis  sharedConfig.RedisConfig  `mapstructure:"redis"`
	Email  sharedConfig.EmailConfig  `mapstructure:"email"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("TAILORCV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults can carry a deployment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	viper.SetDefault("auth.access_token.secret", "change-me-in-production")

	// Stripe defaults (prices must be configured per environment)
	viper.SetDefault("stripe.api_base", "https://api.stripe.com")
	viper.SetDefault("stripe.secret_key", "")
	viper.SetDefault("stripe.webhook_secret", "")
	viper.SetDefault("stripe.price_single", "")
	viper.SetDefault("stripe.price_bundle2", "")
	viper.SetDefault("stripe.price_bundle5", "")
	viper.SetDefault("stripe.price_hour", "")

	// AI defaults
	viper.SetDefault("ai.api_base", "https://api.openai.com")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.max_tokens", 3000)

	// Quota defaults
	viper.SetDefault("quota.daily_limit", 3)
	viper.SetDefault("quota.pro_limit", 20)

	// Store defaults
	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("store.sqlite_path", "tailorcv.db")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@tailorcv.local")
	viper.SetDefault("email.from_name", "TailorCV")
	viper.SetDefault("email.contact_to", "")
}
