package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration, loadable from config.yaml in the
// working directory and overridable with ESCROW_* environment variables.
type Config struct {
	HTTPAddr  string        `mapstructure:"http_addr"`
	PgDSN     string        `mapstructure:"pg_dsn"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisPass string        `mapstructure:"redis_pass"`
	RedisDB   int           `mapstructure:"redis_db"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
	// Owner controls the open/closed gate for new orders.
	Owner string `mapstructure:"owner"`
	// Escrow is the custody account bundles are held under.
	Escrow   string `mapstructure:"escrow"`
	LogLevel string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ESCROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("pg_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_pass", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("rate_limit", 100*time.Millisecond)
	v.SetDefault("owner", "0x0000000000000000000000000000000000000001")
	v.SetDefault("escrow", "0x000000000000000000000000000000000000e5c0")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
