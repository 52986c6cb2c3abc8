package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type AccessTokenConfig struct {
	Secret string `mapstructure:"secret"`
}

type AuthConfig struct {
	AccessToken AccessTokenConfig `mapstructure:"access_token"`
}

type StripeConfig struct {
	APIBase       string `mapstructure:"api_base"`
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	PriceSingle   string `mapstructure:"price_single"`
	PriceBundle2  string `mapstructure:"price_bundle2"`
	PriceBundle5  string `mapstructure:"price_bundle5"`
	PriceHour     string `mapstructure:"price_hour"`
}

type AIConfig struct {
	APIBase   string `mapstructure:"api_base"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type QuotaConfig struct {
	DailyLimit int `mapstructure:"daily_limit"`
	ProLimit   int `mapstructure:"pro_limit"`
}

// StoreConfig selects the purchase-record store backend. The store is a
// best-effort shortcut for checkout confirmation; all backends may lose data
// without affecting correctness.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"` // memory, redis, sqlite
	SQLitePath string `mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	ContactTo    string `mapstructure:"contact_to"`
}
