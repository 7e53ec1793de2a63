// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"injective-token-lab/internal/chat"
	"injective-token-lab/internal/dex"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/walletscan"
)

// Network is the only supported chain network.
const Network = "mainnet"

// Talent backends.
const (
	TalentBackendCSV      = "csv"
	TalentBackendPostgres = "postgres"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the typed service configuration.
type Config struct {
	Network     string `mapstructure:"network"`
	LCDURL      string `mapstructure:"lcd_url"`
	ExplorerURL string `mapstructure:"explorer_url"`
	DexPriceURL string `mapstructure:"dex_price_url"`
	HTTPAddr    string `mapstructure:"http_addr"`

	WebhookBurnURL   string `mapstructure:"webhook_burn_url"`
	WebhookScamURL   string `mapstructure:"webhook_scam_url"`
	WebhookTalentURL string `mapstructure:"webhook_talent_url"`

	DiscordBotToken   string `mapstructure:"discord_bot_token"`
	DiscordChannelID  string `mapstructure:"discord_channel_id"`
	DiscordGatewayURL string `mapstructure:"discord_gateway_url"`
	DiscordAPIURL     string `mapstructure:"discord_api_url"`

	ScamListPath   string `mapstructure:"scam_list_path"`
	TalentFilePath string `mapstructure:"talent_file_path"`
	RegistryPath   string `mapstructure:"registry_path"`
	TalentBackend  string `mapstructure:"talent_backend"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	ClickhouseDSN  string `mapstructure:"clickhouse_dsn"`

	BurnWatchSchedule      string `mapstructure:"burn_watch_schedule"`
	SupplySnapshotSchedule string `mapstructure:"supply_snapshot_schedule"`

	UpstreamTimeout     time.Duration `mapstructure:"upstream_timeout"`
	UpstreamConcurrency int           `mapstructure:"upstream_concurrency"`
	ScanMaxTransactions int           `mapstructure:"scan_max_transactions"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"network":                  Network,
	"lcd_url":                  injective.DefaultLCDURL,
	"explorer_url":             injective.DefaultExplorerURL,
	"dex_price_url":            dex.DefaultBaseURL,
	"http_addr":                ":8080",
	"webhook_burn_url":         "",
	"webhook_scam_url":         "",
	"webhook_talent_url":       "",
	"discord_bot_token":        "",
	"discord_channel_id":       "",
	"discord_gateway_url":      chat.DefaultGatewayURL,
	"discord_api_url":          chat.DefaultAPIURL,
	"scam_list_path":           "",
	"talent_file_path":         "data/talent.csv",
	"registry_path":            "",
	"talent_backend":           TalentBackendCSV,
	"postgres_dsn":             "",
	"clickhouse_dsn":           "",
	"burn_watch_schedule":      "@every 5m",
	"supply_snapshot_schedule": "@every 1h",
	"upstream_timeout":         injective.DefaultTimeout,
	"upstream_concurrency":     injective.DefaultConcurrency,
	"scan_max_transactions":    walletscan.DefaultMaxTransactions,
	"log_level":                "info",
	"log_format":               "json",
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper binds every key to its upper-case environment variable on v
// and decodes the result.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unsupported or inconsistent settings.
func (c *Config) Validate() error {
	if !strings.EqualFold(c.Network, Network) {
		return fmt.Errorf("%w: network %q is not supported, only %s", ErrInvalidConfig, c.Network, Network)
	}
	c.Network = Network

	switch c.TalentBackend {
	case TalentBackendCSV:
		if c.TalentFilePath == "" {
			return fmt.Errorf("%w: TALENT_FILE_PATH is required for the csv backend", ErrInvalidConfig)
		}
	case TalentBackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: POSTGRES_DSN is required for the postgres backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown TALENT_BACKEND %q", ErrInvalidConfig, c.TalentBackend)
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("%w: UPSTREAM_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.UpstreamConcurrency <= 0 {
		return fmt.Errorf("%w: UPSTREAM_CONCURRENCY must be positive", ErrInvalidConfig)
	}
	if c.ScanMaxTransactions <= 0 {
		return fmt.Errorf("%w: SCAN_MAX_TRANSACTIONS must be positive", ErrInvalidConfig)
	}
	return nil
}

// ChatEnabled reports whether command mode has its credentials.
func (c *Config) ChatEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordChannelID != ""
}
