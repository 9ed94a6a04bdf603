package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

/* Config is read from an optional .env (TOML) file and the environment
 * Environment variables win over the file, defaults fill the rest
 */

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	StoreDriver        string        `mapstructure:"STORE_DRIVER"`
	EndpointsFile      string        `mapstructure:"ENDPOINTS_FILE"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	RedisKey           string        `mapstructure:"REDIS_KEY"`
	RoutesFile         string        `mapstructure:"ROUTES_FILE"`
	WatchRoutes        bool          `mapstructure:"WATCH_ROUTES"`
	DeliveryTimeout    time.Duration `mapstructure:"DELIVERY_TIMEOUT"`
	InsecureSkipVerify bool          `mapstructure:"INSECURE_SKIP_VERIFY"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"STORE_DRIVER":         StoreFile,
	"ENDPOINTS_FILE":       "endpoints.json",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"REDIS_KEY":            "relay:endpoints",
	"ROUTES_FILE":          "",
	"WATCH_ROUTES":         false,
	"DELIVERY_TIMEOUT":     "30s",
	"INSECURE_SKIP_VERIFY": false,
	"SHUTDOWN_TIMEOUT":     "30s",
	"LOG_LEVEL":            "info",
}

// GetConfig reads .env from the working directory, if present, and the environment
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads .env from dir, if present, and the environment
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate rejects values the relay cannot start with
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	switch c.StoreDriver {
	case StoreFile:
		if c.EndpointsFile == "" {
			return fmt.Errorf("ENDPOINTS_FILE cannot be empty with the file store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty with the redis store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreFile, StoreRedis, c.StoreDriver)
	}
	if c.DeliveryTimeout < 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT cannot be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.WatchRoutes && c.RoutesFile == "" {
		return fmt.Errorf("WATCH_ROUTES requires ROUTES_FILE")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
