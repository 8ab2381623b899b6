package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

type OIDCProviderConfig struct {
	Id           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	IssuerURL    string   `yaml:"issuer_url"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

type NudgeConfig struct {
	ResendAPIKey string        `yaml:"resend_api_key" env:"HABITS_RESEND_API_KEY"`
	Email        string        `yaml:"email" env:"HABITS_NOTIFY_EMAIL"`
	From         string        `yaml:"from" env:"HABITS_NOTIFY_FROM"`
	Window       time.Duration `yaml:"window" env:"HABITS_NUDGE_WINDOW"`
	// Cron specs, evaluated in the local zone.
	Schedule []string `yaml:"schedule" env:"HABITS_NUDGE_SCHEDULE" envSeparator:";"`
}

type Config struct {
	ListenAddr string `yaml:"listen_addr" env:"HABITS_LISTEN_ADDR"`
	APIBaseURL string `yaml:"api_base_url" env:"HABITS_API_BASE"`
	AuthToken  string `yaml:"auth_token" env:"HABITS_AUTH_TOKEN"`

	StorageBackend string `yaml:"storage_backend" env:"HABITS_STORAGE"`
	DBPath         string `yaml:"db_path" env:"HABITS_DB_PATH"`

	LogLevel  string `yaml:"log_level" env:"HABITS_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"HABITS_LOG_FORMAT"`
	LogFile   string `yaml:"log_file" env:"HABITS_LOG_FILE"`

	AuthEnabled   bool                 `yaml:"auth_enabled" env:"HABITS_AUTH_ENABLED"`
	OIDCProviders []OIDCProviderConfig `yaml:"oidc_providers"`

	Nudge NudgeConfig `yaml:"nudge"`
}

// Load reads the YAML config at path, or at $HABITS_CONFIG when set, then
// applies a .env file and HABITS_* environment overrides. A missing file is
// only an error when it was named through HABITS_CONFIG.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := false
	if p := os.Getenv("HABITS_CONFIG"); p != "" {
		path, explicit = p, true
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:8080"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = BackendBolt
	}
	if c.DBPath == "" {
		c.DBPath = "habits.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Nudge.From == "" {
		c.Nudge.From = "onboarding@resend.dev"
	}
	if c.Nudge.Window == 0 {
		c.Nudge.Window = 10 * time.Hour
	}
	if len(c.Nudge.Schedule) == 0 {
		c.Nudge.Schedule = []string{"0 14 * * *", "13 20 * * *"}
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Nudge.Window < 0 {
		return fmt.Errorf("nudge window must not be negative")
	}
	if c.AuthEnabled {
		for i, p := range c.OIDCProviders {
			if p.Id == "" || p.IssuerURL == "" {
				return fmt.Errorf("oidc provider %d: id and issuer_url are required", i)
			}
		}
	}
	return nil
}
