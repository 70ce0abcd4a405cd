package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/httpclient"
)

// Store drivers
const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

// Message sinks
const (
	SinkMemory = "memory"
	SinkRedis  = "redis"
	SinkLog    = "log"
)

// ServerConfig configures the hero API backend
type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StoreConfig selects the hero repository
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig configures the persisted message log
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Key      string        `mapstructure:"key"`
	Capacity int64         `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MessagesConfig selects where HeroService messages go
type MessagesConfig struct {
	Sink     string `mapstructure:"sink"`
	Capacity int    `mapstructure:"capacity"`
}

// DatadogConfig configures the tracer, profiler and DogStatsD client
type DatadogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Profiling  bool   `mapstructure:"profiling"`
	Env        string `mapstructure:"env"`
	Service    string `mapstructure:"service"`
	Version    string `mapstructure:"version"`
	AgentHost  string `mapstructure:"agent_host"`
	StatsdPort string `mapstructure:"statsd_port"`
}

// StatsdAddr returns the DogStatsD address, empty when no agent is configured
func (c DatadogConfig) StatsdAddr() string {
	if c.AgentHost == "" {
		return ""
	}
	return c.AgentHost + ":" + c.StatsdPort
}

// LoggerConfig configures logrus
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// Config represents the global configuration shared by cmd/api and cmd/heroes
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Store    StoreConfig       `mapstructure:"store"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Messages MessagesConfig    `mapstructure:"messages"`
	HeroAPI  httpclient.Config `mapstructure:"hero_api"`
	Datadog  DatadogConfig     `mapstructure:"datadog"`
	Logger   LoggerConfig      `mapstructure:"logger"`
}

// Load reads the configuration from an optional TOML file and the environment.
// Environment variables take precedence over file values. Nested keys map to
// double-underscore names (hero_api.base_url -> HERO_API__BASE_URL) and the
// common flat names in bindEnvVars.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/hero-tour")
		v.AddConfigPath("/etc/hero-tour")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints viper cannot express
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreMySQL:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Messages.Sink {
	case SinkMemory, SinkLog:
	case SinkRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis message sink")
		}
	default:
		return fmt.Errorf("unknown message sink %q", c.Messages.Sink)
	}

	if err := c.HeroAPI.Validate(); err != nil {
		return fmt.Errorf("hero_api: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allow_origins", []string{})

	v.SetDefault("store.driver", StoreMemory)

	v.SetDefault("redis.key", "hero-tour:messages")
	v.SetDefault("redis.capacity", 100)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("messages.sink", SinkMemory)
	v.SetDefault("messages.capacity", 0)

	v.SetDefault("hero_api.base_url", "http://localhost:8080")
	v.SetDefault("hero_api.timeout", 10*time.Second)
	v.SetDefault("hero_api.service_name", "hero-tour-client")

	v.SetDefault("datadog.service", "hero-tour")
	v.SetDefault("datadog.statsd_port", "8125")

	v.SetDefault("logger.level", "info")
}

// bindEnvVars binds the flat environment names the deployment files use
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":          {"HTTP_PORT", "PORT"},
		"server.allow_origins": {"HTTP_ALLOWED_ORIGINS"},

		"store.driver": {"STORE_DRIVER"},
		"store.dsn":    {"MYSQL_DSN"},

		"redis.addr":     {"REDIS_ADDR"},
		"redis.key":      {"REDIS_MESSAGES_KEY"},
		"redis.capacity": {"REDIS_MESSAGES_CAPACITY"},
		"redis.ttl":      {"REDIS_MESSAGES_TTL"},

		"messages.sink":     {"MESSAGES_SINK"},
		"messages.capacity": {"MESSAGES_CAPACITY"},

		"hero_api.base_url":     {"HERO_API_BASE_URL"},
		"hero_api.timeout":      {"HERO_API_TIMEOUT"},
		"hero_api.service_name": {"HERO_API_SERVICE_NAME"},

		"datadog.enabled":     {"DD_TRACE_ENABLED"},
		"datadog.profiling":   {"DD_PROFILING_ENABLED"},
		"datadog.env":         {"DD_ENV"},
		"datadog.service":     {"DD_SERVICE"},
		"datadog.version":     {"DD_VERSION"},
		"datadog.agent_host":  {"DD_AGENT_HOST"},
		"datadog.statsd_port": {"DD_DOGSTATSD_PORT"},

		"logger.level": {"LOG_LEVEL"},
	}

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
