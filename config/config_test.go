package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("TATUM_API_KEY", "key-from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		APIKey:         "key-from-env",
		BaseURL:        "https://api.tatum.io/v3",
		Env:            "local",
		ListenInterval: 5 * time.Second,
		Kafka:          KafkaConfig{Topic: "tatum.webhooks"},
		Redis:          RedisConfig{TTL: 24 * time.Hour},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
api_key: from-file
testnet: true
listen_interval: 2s
kafka:
  topic: hooks
redis:
  addr: localhost:6379
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TATUM_API_KEY", "from-env")
	t.Setenv("TATUM_KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, env should win over file", cfg.APIKey)
	}
	if !cfg.Testnet || cfg.ListenInterval != 2*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"a:9092", "b:9092"}, cfg.Kafka.Brokers); diff != "" {
		t.Errorf("brokers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Kafka.Topic != "hooks" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("nested values not applied: %+v", cfg)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := &Config{ListenInterval: time.Second}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}
