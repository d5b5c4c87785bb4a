package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic   AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	USASpending APIConfig       `yaml:"usaspending" mapstructure:"usaspending"`
	NIHReporter APIConfig       `yaml:"nih_reporter" mapstructure:"nih_reporter"`
	SBIR        APIConfig       `yaml:"sbir" mapstructure:"sbir"`
	USPTO       APIConfig       `yaml:"uspto" mapstructure:"uspto"`
	WebSearch   WebSearchConfig `yaml:"websearch" mapstructure:"websearch"`
	Notion      NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Pipeline    PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server      ServerConfig    `yaml:"server" mapstructure:"server"`
	Log         LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// APIConfig holds settings shared by the federal data API clients.
type APIConfig struct {
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Key     string  `yaml:"key" mapstructure:"key"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
}

// WebSearchConfig holds web search provider settings. The provider is
// selected by base URL; search stays disabled until one is configured.
type WebSearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// NotionConfig holds Notion API credentials and the results database ID.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	ResultsDB string `yaml:"results_db" mapstructure:"results_db"`
}

// PipelineConfig configures pipeline orchestration.
type PipelineConfig struct {
	TopK                   int    `yaml:"top_k" mapstructure:"top_k"`
	MaxConcurrentCompanies int    `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
	WeightsPath            string `yaml:"weights_path" mapstructure:"weights_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("NOF1")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "nof1.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("pipeline.top_k", 10)
	v.SetDefault("pipeline.max_concurrent_companies", 5)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("usaspending.base_url", "https://api.usaspending.gov")
	v.SetDefault("usaspending.rps", 5)
	v.SetDefault("usaspending.enabled", true)
	v.SetDefault("nih_reporter.base_url", "https://api.reporter.nih.gov")
	v.SetDefault("nih_reporter.rps", 1)
	v.SetDefault("nih_reporter.enabled", true)
	v.SetDefault("sbir.base_url", "https://api.www.sbir.gov")
	v.SetDefault("sbir.rps", 2)
	v.SetDefault("sbir.enabled", true)
	v.SetDefault("uspto.base_url", "https://search.patentsview.org")
	v.SetDefault("uspto.rps", 0.75)
	v.SetDefault("uspto.enabled", true)
	v.SetDefault("websearch.enabled", false)

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

	return &cfg, nil
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
