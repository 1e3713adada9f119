package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cafe-tab/internal/platform/logger"

	"github.com/caarlos0/env/v11"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	HTTPAddr           string `env:"HTTP_ADDR"`
	LogMode            string `env:"LOG_MODE" envDefault:"dev"`
	EventStore         string `env:"EVENT_STORE" envDefault:"postgres"`
	ViewStore          string `env:"VIEW_STORE" envDefault:"redis"`
	InlineProjections  bool   `env:"INLINE_PROJECTIONS" envDefault:"true"`
	CommandMaxAttempts int    `env:"COMMAND_MAX_ATTEMPTS" envDefault:"3"`
	PublicBaseURL      string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Gateway  Gateway
}

type Postgres struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME" envDefault:"cafe"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
}

func (p Postgres) DSN() string {
	return "host=" + p.Host + " port=" + p.Port + " user=" + p.User +
		" password=" + p.Password + " dbname=" + p.Name + " sslmode=disable"
}

type Redis struct {
	Host string `env:"REDIS_HOST" envDefault:"localhost"`
	Port string `env:"REDIS_PORT" envDefault:"6379"`
}

func (r Redis) Addr() string { return r.Host + ":" + r.Port }

// Kafka publishing and consuming are off when Broker is empty.
type Kafka struct {
	Broker  string `env:"KAFKA_BROKER"`
	Topic   string `env:"KAFKA_TOPIC" envDefault:"tab-events"`
	GroupID string `env:"KAFKA_GROUP_ID" envDefault:"projector-svc"`
}

func (k Kafka) Enabled() bool { return k.Broker != "" }

type Gateway struct {
	TabSvcURL       string `env:"TAB_SVC_URL" envDefault:"http://localhost:8081"`
	ProjectorSvcURL string `env:"PROJECTOR_SVC_URL" envDefault:"http://localhost:8082"`
}

// Load reads the environment. defaultAddr is used when HTTP_ADDR is unset.
func Load(defaultAddr string) (Config, error) {
	cfg := Config{HTTPAddr: defaultAddr}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.EventStore != StorePostgres && c.EventStore != StoreMemory {
		errs = append(errs, fmt.Errorf("EVENT_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.EventStore))
	}
	if c.ViewStore != StoreRedis && c.ViewStore != StoreMemory {
		errs = append(errs, fmt.Errorf("VIEW_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.ViewStore))
	}
	if c.CommandMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("COMMAND_MAX_ATTEMPTS must be at least 1, got %d", c.CommandMaxAttempts))
	}
	return errors.Join(errs...)
}

func MustInitPostgres(cfg Postgres, log *logger.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal("failed to open database", "host", cfg.Host, "error", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("failed to ping database", "host", cfg.Host, "error", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Redis, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to redis", "addr", cfg.Addr(), "error", err)
	}

	return client
}

func NewKafkaReader(cfg Kafka) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

// NewKafkaWriter hashes on the message key so every event of a tab lands on
// the same partition.
func NewKafkaWriter(cfg Kafka) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
