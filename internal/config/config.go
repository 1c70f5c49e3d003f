package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nulzo/llm-provider-kit/internal/platform/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Client      ClientConfig      `mapstructure:"client"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Probe       ProbeConfig       `mapstructure:"probe"`
	Store       StoreConfig       `mapstructure:"store"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// Logger converts the section into the logger package's config. NO_COLOR
// still wins over log.color.
func (c LogConfig) Logger(output string) logger.Config {
	color := c.Color
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		color = false
	}
	return logger.Config{
		Level:       c.Level,
		Format:      c.Format,
		EnableColor: color,
		Output:      output,
	}
}

type CredentialsConfig struct {
	Path string `mapstructure:"path"`
}

type CatalogConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	OkDir      string `mapstructure:"ok_dir"`
	ExportFile string `mapstructure:"export_file"`
}

// ClientConfig overrides chat/embedding base URLs per provider.
type ClientConfig struct {
	BaseURLs map[string]string `mapstructure:"base_urls"`
}

type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Delay   time.Duration `mapstructure:"delay"`
	// BaseURLs overrides the model listing endpoint per provider.
	BaseURLs map[string]string `mapstructure:"base_urls"`
}

// ProbeConfig overrides the probe modes. Zero values keep each mode's own
// timeout, delay and prompt.
type ProbeConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Delay   time.Duration `mapstructure:"delay"`
	Query   string        `mapstructure:"query"`
	Samples int           `mapstructure:"samples"`
}

// StoreConfig locates the sqlite history database. An empty path disables it.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoadConfig reads config.yaml (or $CONFIG_FILE) when present, then applies
// environment overrides: server.port is SERVER_PORT, and so on.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)
	v.SetDefault("credentials.path", "api_keys.json")
	v.SetDefault("catalog.data_dir", "data")
	v.SetDefault("catalog.ok_dir", "data_ok")
	v.SetDefault("catalog.export_file", "models.json")
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.delay", time.Duration(0))
	v.SetDefault("probe.timeout", time.Duration(0))
	v.SetDefault("probe.delay", time.Duration(0))
	v.SetDefault("probe.query", "")
	v.SetDefault("probe.samples", 1)
	v.SetDefault("store.path", "")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
