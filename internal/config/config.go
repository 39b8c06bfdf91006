package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/motoshop/directory-api/internal/email"
	"github.com/motoshop/directory-api/internal/geocode"
	"github.com/motoshop/directory-api/internal/middleware"
	"github.com/motoshop/directory-api/internal/repository/postgres"
	"github.com/motoshop/directory-api/pkg/logger"
	"github.com/motoshop/directory-api/pkg/messaging/redis"
)

type Config struct {
	Server    ServerConfig          `mapstructure:"server"`
	Log       logger.Config         `mapstructure:"log"`
	Database  postgres.Config       `mapstructure:"database"`
	Redis     redis.Config          `mapstructure:"redis"`
	Geocoder  geocode.Config        `mapstructure:"geocoder"`
	SMTP      email.SMTPConfig      `mapstructure:"smtp"`
	Auth      middleware.AuthConfig `mapstructure:"auth"`
	RateLimit RateLimitConfig       `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoder.user_agent", "directory-api")
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50)
	viper.SetDefault("rate_limit.burst", 100)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
