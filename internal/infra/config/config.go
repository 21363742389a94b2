package config

import (
	"fmt"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// AppConfig holds all configuration for the application.
// It is built once at startup and passed to the components that need it.
type AppConfig struct {
	StoreBackend  string `koanf:"STORE_BACKEND"`
	SupabaseURL   string `koanf:"SUPABASE_URL"`
	SupabaseKey   string `koanf:"SUPABASE_KEY"`
	SupabaseTable string `koanf:"SUPABASE_TABLE"`
	DatabaseURL   string `koanf:"DATABASE_URL"`
	DBAutoMigrate *bool  `koanf:"DB_AUTO_MIGRATE"`

	SlackWebhookURL         string        `koanf:"SLACK_WEBHOOK_URL"`
	WebhookTimeout          time.Duration `koanf:"WEBHOOK_TIMEOUT"`
	WebhookRateLimitRetries uint          `koanf:"WEBHOOK_RATE_LIMIT_RETRIES"` // Extra attempts on HTTP 429 only
	WebhookRateLimitDelay   time.Duration `koanf:"WEBHOOK_RATE_LIMIT_DELAY"`

	Timezone string `koanf:"TIMEZONE"`
	location *time.Location

	TelegramToken   string `koanf:"TELEGRAM_TOKEN"`
	AdminTelegramID int64  `koanf:"ADMIN_TELEGRAM_ID"`

	CronSpecExpiryCheck string        `koanf:"CRON_SPEC_EXPIRY_CHECK"`
	NotifyJobTimeout    time.Duration `koanf:"NOTIFY_JOB_TIMEOUT"`

	LogLevel    string `koanf:"LOG_LEVEL"`
	Environment string `koanf:"ENVIRONMENT"`
}

// Load reads configuration from environment variables and .env file (if present).
// Values needed by every entry point are validated here; bot-only values are
// checked by ValidateBot.
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validateStore(); err != nil {
		return nil, err
	}

	if cfg.SlackWebhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL is not set")
	}

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.location = loc

	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = BackendSupabase
	}
	if c.SupabaseTable == "" {
		c.SupabaseTable = "yutai"
	}
	if c.DBAutoMigrate == nil {
		autoMigrate := true
		c.DBAutoMigrate = &autoMigrate
	}

	if c.WebhookTimeout == 0 {
		c.WebhookTimeout = 15 * time.Second
	}
	if c.WebhookRateLimitDelay == 0 {
		c.WebhookRateLimitDelay = 30 * time.Second
	}

	if c.CronSpecExpiryCheck == "" {
		c.CronSpecExpiryCheck = "0 9 * * *" // Default: 9 AM daily
	}
	if c.NotifyJobTimeout == 0 {
		c.NotifyJobTimeout = 5 * time.Minute
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel == "" {
		c.LogLevel = "info" // Default log level
	}

	c.Environment = strings.ToLower(c.Environment)
	if c.Environment == "" {
		c.Environment = "development" // Default environment
	}
}

func (c *AppConfig) validateStore() error {
	switch c.StoreBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is not set")
		}
		if c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_KEY is not set")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendSupabase, BackendPostgres)
	}
	return nil
}

// ValidateBot checks the values only the Telegram bot needs.
func (c *AppConfig) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if c.AdminTelegramID == 0 {
		return fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	return nil
}

// Location is the time zone used to decide what "today" is.
func (c *AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// AutoMigrate reports whether the postgres schema should be migrated on startup.
func (c *AppConfig) AutoMigrate() bool {
	return c.DBAutoMigrate == nil || *c.DBAutoMigrate
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(name)
	}
}
