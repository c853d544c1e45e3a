package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"FuturesSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string `yaml:"provider"`
		Proxy          string `yaml:"proxy"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Days           int    `yaml:"days"`
	} `yaml:"data_source"`
	Analysis struct {
		Symbols        []string `yaml:"symbols"`
		Periods        []string `yaml:"periods"`
		RSIStyle       string   `yaml:"rsi_style"`
		RecentPatterns int      `yaml:"recent_patterns"`
		OutputDir      string   `yaml:"output_dir"`
		Chart          *bool    `yaml:"chart"`
		Report         *bool    `yaml:"report"`
		Parquet        bool     `yaml:"parquet"`
		Concurrency    int      `yaml:"concurrency"`
	} `yaml:"analysis"`
	Schedule struct {
		BatchCron string `yaml:"batch_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Cache struct {
		TTLSeconds    int    `yaml:"ttl_seconds"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"log"`
}

// env lists the variables that override the file. Unset variables leave
// the file value alone.
type env struct {
	Symbols       []string `envconfig:"FS_SYMBOLS"`
	BotToken      string   `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID        string   `envconfig:"TELEGRAM_CHAT_ID"`
	Proxy         string   `envconfig:"HTTPS_PROXY"`
	RedisAddr     string   `envconfig:"REDIS_ADDR"`
	RedisPassword string   `envconfig:"REDIS_PASSWORD"`
	SQLitePath    string   `envconfig:"SQLITE_PATH"`
	ServerAddr    string   `envconfig:"SERVER_ADDR"`
	LogLevel      string   `envconfig:"LOG_LEVEL"`
	AppEnv        string   `envconfig:"APP_ENV"`
	BatchCron     string   `envconfig:"CRON_BATCH"`
	OutputDir     string   `envconfig:"OUTPUT_DIR"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.applyEnv(e)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(e env) {
	if len(e.Symbols) > 0 {
		c.Analysis.Symbols = e.Symbols
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Telegram.BotToken, e.BotToken)
	set(&c.Telegram.ChatID, e.ChatID)
	set(&c.DataSource.Proxy, e.Proxy)
	set(&c.Cache.RedisAddr, e.RedisAddr)
	set(&c.Cache.RedisPassword, e.RedisPassword)
	set(&c.Database.SQLitePath, e.SQLitePath)
	set(&c.Server.Addr, e.ServerAddr)
	set(&c.Log.Level, e.LogLevel)
	set(&c.Log.Env, e.AppEnv)
	set(&c.Schedule.BatchCron, e.BatchCron)
	set(&c.Analysis.OutputDir, e.OutputDir)
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "sina"
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = 15
	}
	if c.DataSource.Days == 0 {
		c.DataSource.Days = 30
	}
	if len(c.Analysis.Symbols) == 0 {
		c.Analysis.Symbols = []string{"RB888"}
	}
	if len(c.Analysis.Periods) == 0 {
		for _, p := range model.DefaultPeriods {
			c.Analysis.Periods = append(c.Analysis.Periods, string(p))
		}
	}
	if c.Analysis.RSIStyle == "" {
		c.Analysis.RSIStyle = string(model.RSIStyleInternational)
	}
	if c.Analysis.RecentPatterns == 0 {
		c.Analysis.RecentPatterns = 10
	}
	if c.Analysis.OutputDir == "" {
		c.Analysis.OutputDir = "output"
	}
	if c.Analysis.Chart == nil {
		c.Analysis.Chart = boolPtr(true)
	}
	if c.Analysis.Report == nil {
		c.Analysis.Report = boolPtr(true)
	}
	if c.Analysis.Concurrency == 0 {
		c.Analysis.Concurrency = 3
	}
	if c.Schedule.BatchCron == "" {
		c.Schedule.BatchCron = "0 30 15 * * 1-5"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/futures_sentinel.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
}

func boolPtr(b bool) *bool { return &b }

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.DataSource.Provider {
	case "sina", "mock":
	default:
		errs = append(errs, fmt.Errorf("data_source.provider %q must be sina or mock", c.DataSource.Provider))
	}
	if c.DataSource.Days <= 0 {
		errs = append(errs, errors.New("data_source.days must be positive"))
	}
	if _, err := c.ParsedPeriods(); err != nil {
		errs = append(errs, err)
	}
	switch model.RSIStyle(c.Analysis.RSIStyle) {
	case model.RSIStyleInternational, model.RSIStyleChina:
	default:
		errs = append(errs, fmt.Errorf("analysis.rsi_style %q must be international or china", c.Analysis.RSIStyle))
	}
	if c.Analysis.RecentPatterns < 0 {
		errs = append(errs, errors.New("analysis.recent_patterns must not be negative"))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram.chat_id is required when bot_token is set"))
	}
	return errors.Join(errs...)
}

// ParsedPeriods resolves the configured period names, aliases included.
func (c *Config) ParsedPeriods() ([]model.Period, error) {
	out := make([]model.Period, 0, len(c.Analysis.Periods))
	for _, s := range c.Analysis.Periods {
		p, ok := model.ParsePeriod(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("analysis.periods: unknown period %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}

// Timeout returns the data source HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// CacheTTL returns the bar cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// TelegramEnabled reports whether notifications can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
