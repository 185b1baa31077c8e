package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config -
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// DatasetConfig - where the passenger CSV comes from and how it is prepared
type DatasetConfig struct {
	Path              string `mapstructure:"path"`                // local file or http(s) URL
	DropFamilySources bool   `mapstructure:"drop_family_sources"` // drop SibSp/Parch after deriving family_size
	FetchTimeout      int    `mapstructure:"fetch_timeout"`       // seconds, remote sources only
	MaxRetries        int    `mapstructure:"max_retries"`
}

// ServerConfig - HTTP listener
type ServerConfig struct {
	Host      string  `mapstructure:"host"`
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	RateBurst int     `mapstructure:"rate_burst"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatasetConfig) Timeout() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// RegisterFlags adds the configuration flags to fs. Flag names match the
// config keys so they can be bound directly.
func RegisterFlags(fs *pflag.FlagSet) {
	// Dataset
	fs.String("dataset.path", "./train.csv", "Dataset CSV path or URL (env: DATASET_PATH)")
	fs.Bool("dataset.drop_family_sources", false, "Drop SibSp and Parch after deriving family_size (env: DATASET_DROP_FAMILY_SOURCES)")
	fs.Int("dataset.fetch_timeout", 30, "Remote dataset timeout in seconds (env: DATASET_FETCH_TIMEOUT)")
	fs.Int("dataset.max_retries", 3, "Max retries for remote dataset fetch (env: DATASET_MAX_RETRIES)")

	// Server
	fs.String("server.host", "0.0.0.0", "Listen host (env: HOST)")
	fs.Int("server.port", 5000, "Listen port (env: PORT)")
	fs.Float64("server.rate_limit", 20, "Requests per second across all clients (env: RATE_LIMIT)")
	fs.Int("server.rate_burst", 40, "Rate limiter burst (env: RATE_BURST)")

	// Log
	fs.String("log.dir", "logs", "Log directory, empty for stderr (env: LOG_DIR)")
	fs.String("log.level", "info", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
}

// LoadConfig from flags, env, and
// 1. by default
// 2. config.yaml
// 3. .env file
// 4. environment
// 5. flags set on the command line
// fs may be nil when no flags are registered.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	// .env only fills variables the environment does not already define
	_ = godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	setupEnvAliases(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Dataset
	_ = v.BindEnv("dataset.path", "DATASET_PATH")
	_ = v.BindEnv("dataset.drop_family_sources", "DATASET_DROP_FAMILY_SOURCES")
	_ = v.BindEnv("dataset.fetch_timeout", "DATASET_FETCH_TIMEOUT")
	_ = v.BindEnv("dataset.max_retries", "DATASET_MAX_RETRIES")

	// Server
	_ = v.BindEnv("server.host", "HOST")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.rate_limit", "RATE_LIMIT")
	_ = v.BindEnv("server.rate_burst", "RATE_BURST")

	// Log
	_ = v.BindEnv("log.dir", "LOG_DIR")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

// setDefaults by default
func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", "./train.csv")
	v.SetDefault("dataset.drop_family_sources", false)
	v.SetDefault("dataset.fetch_timeout", 30)
	v.SetDefault("dataset.max_retries", 3)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", "info")
}

func validateConfig(cfg *Config) error {
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.Dataset.FetchTimeout <= 0 {
		return fmt.Errorf("dataset.fetch_timeout must be positive, got %d", cfg.Dataset.FetchTimeout)
	}
	if cfg.Dataset.MaxRetries < 0 {
		return fmt.Errorf("dataset.max_retries must not be negative, got %d", cfg.Dataset.MaxRetries)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimit <= 0 || cfg.Server.RateBurst <= 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must be positive")
	}
	return nil
}
