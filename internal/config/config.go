package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Cache drivers.
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

// History drivers.
const (
	HistoryDriverPostgres = "postgres"
	HistoryDriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	YouTube  YouTubeConfig
	Cache    CacheConfig
	Redis    RedisConfig
	History  HistoryConfig
	Database DatabaseConfig
	Events   EventsConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// YouTubeConfig is only read by the API server. The key is checked by the
// YouTube client so the worker can start without it.
type YouTubeConfig struct {
	APIKey  string        `envconfig:"YOUTUBE_API_KEY"`
	Timeout time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"10s"`
}

type CacheConfig struct {
	Driver string        `envconfig:"CACHE_DRIVER" default:"redis"`
	TTL    time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type HistoryConfig struct {
	Driver     string `envconfig:"HISTORY_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/history.db"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"ytsearch"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"ytsearch"`
	DBName   string `envconfig:"POSTGRES_DB" default:"ytsearch"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	MaxConns       int32         `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	ConnectTimeout time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"5s"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// EventsConfig toggles publication of search events from the API server.
type EventsConfig struct {
	Enabled bool `envconfig:"EVENTS_ENABLED" default:"false"`
}

type MinIOConfig struct {
	Endpoint     string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey    string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey    string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket       string `envconfig:"MINIO_BUCKET" default:"search-archive"`
	UseSSL       bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	CreateBucket bool   `envconfig:"MINIO_CREATE_BUCKET" default:"true"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"ytsearch"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"ytsearch"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.Cache.Driver {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver))
	}

	switch c.History.Driver {
	case HistoryDriverPostgres, HistoryDriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown HISTORY_DRIVER %q", c.History.Driver))
	}

	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}
