package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scrape ScrapeConfig `yaml:"scrape" mapstructure:"scrape"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures season scraping against the stats site.
type ScrapeConfig struct {
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	Years              []int  `yaml:"years" mapstructure:"years"`
	MaxRetries         int    `yaml:"max_retries" mapstructure:"max_retries"`
	InitialBackoffSecs int    `yaml:"initial_backoff_secs" mapstructure:"initial_backoff_secs"`
	TimeoutSecs        int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerMinute  int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	CacheTTLHours      int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	TeamAliasesPath    string `yaml:"team_aliases_path" mapstructure:"team_aliases_path"`
}

// InitialBackoff returns the first retry delay as a duration.
func (s ScrapeConfig) InitialBackoff() time.Duration {
	return time.Duration(s.InitialBackoffSecs) * time.Second
}

// Timeout returns the per-request HTTP timeout as a duration.
func (s ScrapeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// CacheTTL returns how long fetched pages stay fresh in the page cache.
func (s ScrapeConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// OutputConfig names the files written by the scrape and analyze commands.
type OutputConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`
	CombinedFile    string `yaml:"combined_file" mapstructure:"combined_file"`
	DescriptiveFile string `yaml:"descriptive_file" mapstructure:"descriptive_file"`
	ChartsDir       string `yaml:"charts_dir" mapstructure:"charts_dir"`
	WorkbookFile    string `yaml:"workbook_file" mapstructure:"workbook_file"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QBSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scrape.base_url", "https://www.pro-football-reference.com")
	v.SetDefault("scrape.years", []int{2013, 2021, 2022})
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.initial_backoff_secs", 5)
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.requests_per_minute", 20)
	v.SetDefault("scrape.cache_ttl_hours", 0)
	v.SetDefault("scrape.team_aliases_path", "")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.combined_file", "qb_combined_stats_with_playoff_status.csv")
	v.SetDefault("output.descriptive_file", "descriptive_stats.csv")
	v.SetDefault("output.charts_dir", ".")
	v.SetDefault("output.workbook_file", "analysis.xlsx")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "qbstats.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the scrape pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Scrape.BaseURL == "" {
		return eris.New("config: scrape.base_url is required")
	}
	if c.Scrape.MaxRetries < 1 {
		return eris.Errorf("config: scrape.max_retries must be >= 1, got %d", c.Scrape.MaxRetries)
	}
	if c.Scrape.InitialBackoffSecs < 0 {
		return eris.Errorf("config: scrape.initial_backoff_secs must be >= 0, got %d", c.Scrape.InitialBackoffSecs)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: unknown store.driver %q (valid: sqlite, postgres, none)", c.Store.Driver)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
