package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kerwei/orderbook/pkg/redis"
)

// Backend selectors for the pluggable edges of the engine.
const (
	FeedStdin     = "stdin"
	FeedKafka     = "kafka"
	TradesStdout  = "stdout"
	TradesKafka   = "kafka"
	SnapshotFile  = "file"
	SnapshotRedis = "redis"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Feed     FeedConfig     `envPrefix:"FEED_"`
	Trades   TradesConfig   `envPrefix:"TRADES_"`
	Snapshot SnapshotConfig `envPrefix:"SNAPSHOT_"`
	Redis    redis.Config   `envPrefix:"REDIS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name       string `env:"NAME" envDefault:"orderbook-engine"`
	Instrument string `env:"INSTRUMENT" envDefault:"DEMO"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// FeedConfig selects and configures the order entry source.
type FeedConfig struct {
	Backend string      `env:"BACKEND" envDefault:"stdin"`
	Kafka   KafkaConfig `envPrefix:"KAFKA_"`
}

// TradesConfig selects and configures the trade confirmation sink.
type TradesConfig struct {
	Backend string      `env:"BACKEND" envDefault:"stdout"`
	Kafka   KafkaConfig `envPrefix:"KAFKA_"`
}

// KafkaConfig represents the Kafka configuration for one topic.
type KafkaConfig struct {
	Brokers   []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic     string   `env:"TOPIC" envDefault:"orders"`
	Partition int      `env:"PARTITION" envDefault:"0"`
}

// SnapshotConfig configures book state persistence.
type SnapshotConfig struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	// Path is the snapshot file location for the file backend. Removing
	// the file resets the book to empty on the next run.
	Path string `env:"PATH" envDefault:"saved/data"`
	// Key is the snapshot key for the redis backend.
	Key string `env:"KEY" envDefault:"orderbook:snapshot"`
	// Every persists the book after every N processed entries on top of
	// the final save. Zero disables periodic snapshots.
	Every int64 `env:"EVERY" envDefault:"0"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads the configuration and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
