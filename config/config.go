package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (TATUM_API_KEY, ...)
const EnvPrefix = "TATUM"

// ErrMissingAPIKey is returned by Validate when no API key is configured
var ErrMissingAPIKey = errors.New("api key is not configured (set TATUM_API_KEY)")

// Config holds everything the CLI needs to build clients and services
type Config struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Testnet        bool          `mapstructure:"testnet"`
	Env            string        `mapstructure:"env"`
	ListenInterval time.Duration `mapstructure:"listen_interval"`
	Kafka          KafkaConfig   `mapstructure:"kafka"`
	Redis          RedisConfig   `mapstructure:"redis"`
	MetricsPort    string        `mapstructure:"metrics_port"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// DefaultPath returns ~/.tatum/config.yaml
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".tatum", "config.yaml")
}

// Load reads the optional YAML file at path and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// nested keys are only picked up from the env when bound explicitly
	for _, key := range []string{"kafka.brokers", "kafka.topic", "redis.addr", "redis.ttl"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	return &cfg, nil
}

// Validate checks the settings required to talk to the remote API
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.ListenInterval <= 0 {
		return fmt.Errorf("listen interval must be positive, got %s", c.ListenInterval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "https://api.tatum.io/v3")
	v.SetDefault("testnet", false)
	v.SetDefault("env", "local")
	v.SetDefault("listen_interval", 5*time.Second)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "tatum.webhooks")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("metrics_port", "")
}

// splitList flattens "a:9092,b:9092" style env values
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
