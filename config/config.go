package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	AI       AIConfig       `mapstructure:"ai"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

// ServerConfig HTTP server options
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin options
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL options
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis options
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT and account options
type AuthConfig struct {
	JWTSecret       string               `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration        `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration        `mapstructure:"refresh_token_ttl"`
	LoginRateLimit  int                  `mapstructure:"login_rate_limit"`
	LoginRateWindow time.Duration        `mapstructure:"login_rate_window"`
	BootstrapAdmin  BootstrapAdminConfig `mapstructure:"bootstrap_admin"`
}

// BootstrapAdminConfig first administrator, created only while the users table is empty.
type BootstrapAdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

// LogConfig logging options
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelegramConfig Bot API options. Token and chat id live in notification settings.
type TelegramConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	ParseMode string        `mapstructure:"parse_mode"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AIConfig text-generation provider options
type AIConfig struct {
	AnthropicKey string        `mapstructure:"anthropic_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// MonitorConfig derivation and polling options
type MonitorConfig struct {
	NotificationLimit   int                   `mapstructure:"notification_limit"`
	AnalysisRecordLimit int                   `mapstructure:"analysis_record_limit"`
	SyncSchedule        string                `mapstructure:"sync_schedule"`
	PollIntervalSeconds int                   `mapstructure:"poll_interval_seconds"`
	DefaultSettings     DefaultSettingsConfig `mapstructure:"default_settings"`
	Report              ReportConfig          `mapstructure:"report"`
}

// DefaultSettingsConfig values seeded into the settings row on first start.
type DefaultSettingsConfig struct {
	MaxDefects            int    `mapstructure:"max_defects"`
	MaxDowntime           int    `mapstructure:"max_downtime"`
	CostPerDefect         string `mapstructure:"cost_per_defect"`
	CostPerMinuteDowntime string `mapstructure:"cost_per_minute_downtime"`
}

// ReportConfig document export labels
type ReportConfig struct {
	FacilityName string `mapstructure:"facility_name"`
	Currency     string `mapstructure:"currency"`
}

// Load reads configuration from defaults, an optional config file and the environment.
// Priority: environment > config file > defaults.
func Load(path string) (*Config, error) {
	// a missing .env is fine, the process environment is enough
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "ssk_monitor")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Moscow")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")
	v.SetDefault("auth.bootstrap_admin.username", "")
	v.SetDefault("auth.bootstrap_admin.password", "")
	v.SetDefault("auth.bootstrap_admin.full_name", "Administrator")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.parse_mode", "Markdown")
	v.SetDefault("telegram.timeout", "10s")

	v.SetDefault("ai.anthropic_key", "")
	v.SetDefault("ai.base_url", "https://api.anthropic.com")
	v.SetDefault("ai.model", "claude-3-haiku-20240307")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.timeout", "60s")

	v.SetDefault("monitor.notification_limit", 50)
	v.SetDefault("monitor.analysis_record_limit", 20)
	v.SetDefault("monitor.sync_schedule", "@every 30s")
	v.SetDefault("monitor.poll_interval_seconds", 10)
	v.SetDefault("monitor.default_settings.max_defects", 5)
	v.SetDefault("monitor.default_settings.max_downtime", 45)
	v.SetDefault("monitor.default_settings.cost_per_defect", "1500")
	v.SetDefault("monitor.default_settings.cost_per_minute_downtime", "5000")
	v.SetDefault("monitor.report.facility_name", "SSK Zvezda shipbuilding complex")
	v.SetDefault("monitor.report.currency", "RUB")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("SSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Monitor.NotificationLimit <= 0 {
		return fmt.Errorf("invalid config: monitor.notification_limit must be positive")
	}
	if c.Monitor.AnalysisRecordLimit <= 0 {
		return fmt.Errorf("invalid config: monitor.analysis_record_limit must be positive")
	}
	if c.Auth.BootstrapAdmin.Username != "" && len(c.Auth.BootstrapAdmin.Password) < 8 {
		return fmt.Errorf("invalid config: auth.bootstrap_admin.password must be at least 8 characters")
	}
	return nil
}
