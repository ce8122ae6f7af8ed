package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"PivotDesk/internal/model"
	"PivotDesk/internal/pivot"
	"PivotDesk/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Mode selects which settings Validate insists on.
type Mode int

const (
	ModeCLI Mode = iota
	ModeBot
)

// HorizonOverride replaces individual thresholds of one horizon; zero keeps the default.
type HorizonOverride struct {
	TrendNeed    int     `yaml:"trend_need"`
	MomentumNeed int     `yaml:"momentum_need"`
	Tolerance    float64 `yaml:"tolerance"`
	LookbackDays int     `yaml:"lookback_days"`
}

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Source            string        `yaml:"source" envconfig:"DATA_SOURCE"`
		PolygonAPIKey     string        `yaml:"polygon_api_key" envconfig:"POLYGON_API_KEY"`
		PolygonURL        string        `yaml:"polygon_url" envconfig:"POLYGON_URL"`
		YahooURL          string        `yaml:"yahoo_url" envconfig:"YAHOO_URL"`
		Timeout           time.Duration `yaml:"timeout" envconfig:"PROVIDER_TIMEOUT"`
		RequestsPerMinute int           `yaml:"requests_per_minute" envconfig:"PROVIDER_RPM"`
		FailureThreshold  uint32        `yaml:"failure_threshold" envconfig:"PROVIDER_FAILURE_THRESHOLD"`
		BreakerTimeout    time.Duration `yaml:"breaker_timeout" envconfig:"PROVIDER_BREAKER_TIMEOUT"`
	} `yaml:"provider"`
	Cache struct {
		Driver        string        `yaml:"driver" envconfig:"CACHE_DRIVER"`
		SQLitePath    string        `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
		RedisAddr     string        `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
		RedisPassword string        `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
		RedisDB       int           `yaml:"redis_db" envconfig:"REDIS_DB"`
		TTL           time.Duration `yaml:"ttl" envconfig:"CACHE_TTL"`
		Retention     time.Duration `yaml:"retention" envconfig:"CACHE_RETENTION"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken    string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		AdminChatID int64  `yaml:"admin_chat_id" envconfig:"TELEGRAM_ADMIN_CHAT_ID"`
		Template    int    `yaml:"template" envconfig:"TELEGRAM_TEMPLATE"`
		PollTimeout int    `yaml:"poll_timeout" envconfig:"TELEGRAM_POLL_TIMEOUT"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string   `yaml:"refresh_cron" envconfig:"CRON_REFRESH"`
		PruneCron   string   `yaml:"prune_cron" envconfig:"CRON_PRUNE"`
		Watchlist   []string `yaml:"watchlist" envconfig:"WATCHLIST"`
	} `yaml:"schedule"`
	Metrics struct {
		Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
	} `yaml:"metrics"`
	Strategy struct {
		WeekStart    string                     `yaml:"week_start" envconfig:"WEEK_START"`
		FallbackBars map[string]int             `yaml:"fallback_bars" ignored:"true"`
		Horizons     map[string]HorizonOverride `yaml:"horizons" ignored:"true"`
	} `yaml:"strategy"`
	Log struct {
		Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
		Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// PathFromEnv returns CONFIG_PATH or DefaultPath.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then .env, then environment variable
// overrides, then fills defaults. A missing file is not an error.
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

	// .env never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.Source == "" {
		if c.Provider.PolygonAPIKey != "" {
			c.Provider.Source = "polygon"
		} else {
			c.Provider.Source = "yahoo"
		}
	}
	c.Provider.Source = strings.ToLower(c.Provider.Source)
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 30 * time.Second
	}
	if c.Provider.RequestsPerMinute == 0 {
		c.Provider.RequestsPerMinute = 5
	}
	if c.Provider.FailureThreshold == 0 {
		c.Provider.FailureThreshold = 3
	}
	if c.Provider.BreakerTimeout == 0 {
		c.Provider.BreakerTimeout = time.Minute
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "sqlite"
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/pivotdesk.db"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 6 * time.Hour
	}
	if c.Cache.Retention == 0 {
		c.Cache.Retention = 14 * 24 * time.Hour
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 30
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if c.Schedule.PruneCron == "" {
		c.Schedule.PruneCron = "0 0 3 * * 0"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that the fields the given mode depends on are set.
func (c *Config) Validate(mode Mode) error {
	switch c.Provider.Source {
	case "polygon":
		if c.Provider.PolygonAPIKey == "" {
			return fmt.Errorf("provider.polygon_api_key is required for the polygon source")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("provider.source %q is not one of polygon, yahoo, mock", c.Provider.Source)
	}
	switch c.Cache.Driver {
	case "sqlite", "redis", "none":
	default:
		return fmt.Errorf("cache.driver %q is not one of sqlite, redis, none", c.Cache.Driver)
	}
	if c.Telegram.Template < 0 {
		return fmt.Errorf("telegram.template must not be negative")
	}
	if _, err := c.StrategyParams(); err != nil {
		return err
	}
	if mode == ModeBot && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

// StrategyParams merges the strategy section over the built-in tables.
func (c *Config) StrategyParams() (strategy.Params, error) {
	params := strategy.DefaultParams()

	if c.Strategy.WeekStart != "" {
		wd, ok := weekdays[strings.ToLower(c.Strategy.WeekStart)]
		if !ok {
			return params, fmt.Errorf("strategy.week_start %q is not a weekday", c.Strategy.WeekStart)
		}
		params.Periods.WeekStart = wd
	}
	for name, n := range c.Strategy.FallbackBars {
		h, err := model.ParseHorizon(name)
		if err != nil {
			return params, fmt.Errorf("strategy.fallback_bars: %w", err)
		}
		if n <= 0 {
			return params, fmt.Errorf("strategy.fallback_bars.%s must be positive", name)
		}
		params.Periods.FallbackBars[pivot.PeriodFor(h)] = n
	}
	for name, o := range c.Strategy.Horizons {
		h, err := model.ParseHorizon(name)
		if err != nil {
			return params, fmt.Errorf("strategy.horizons: %w", err)
		}
		th := params.Horizons[h]
		if o.TrendNeed < 0 || o.MomentumNeed < 0 || o.Tolerance < 0 || o.LookbackDays < 0 {
			return params, fmt.Errorf("strategy.horizons.%s: values must not be negative", name)
		}
		if o.TrendNeed > 0 {
			th.TrendNeed = o.TrendNeed
		}
		if o.MomentumNeed > 0 {
			th.MomentumNeed = o.MomentumNeed
		}
		if o.Tolerance > 0 {
			th.Tolerance = o.Tolerance
		}
		if o.LookbackDays > 0 {
			th.LookbackDays = o.LookbackDays
		}
		params.Horizons[h] = th
	}
	return params, nil
}
