package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"fulfillment"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`

	// Empty RedisAddr keeps rate limits and idempotency keys in process memory.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// Empty KafkaBrokers logs events instead of publishing them.
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaEventsTopic string   `envconfig:"KAFKA_EVENTS_TOPIC" default:"fulfillment.events"`

	Currency            string        `envconfig:"CURRENCY" default:"XOF"`
	DeliveryFee         int64         `envconfig:"DELIVERY_FEE" default:"2000"`
	LowBalanceThreshold int64         `envconfig:"LOW_BALANCE_THRESHOLD" default:"1000"`
	CodeMaxAttempts     int           `envconfig:"CODE_MAX_ATTEMPTS" default:"5"`
	CodeRateLimit       int           `envconfig:"CODE_RATE_LIMIT" default:"10"`
	CodeRateWindow      time.Duration `envconfig:"CODE_RATE_WINDOW" default:"1m"`
	VerifyRateLimit     int           `envconfig:"VERIFY_RATE_LIMIT" default:"60"`
	VerifyRateWindow    time.Duration `envconfig:"VERIFY_RATE_WINDOW" default:"1m"`
	MaxConflictRetries  int           `envconfig:"MAX_CONFLICT_RETRIES" default:"3"`

	IdempotencyTTL        time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	OutboxBatchSize       int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	OutboxRetention       time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`
	OutboxRelaySchedule   string        `envconfig:"OUTBOX_RELAY_SCHEDULE" default:"@every 1s"`
	OutboxCleanupSchedule string        `envconfig:"OUTBOX_CLEANUP_SCHEDULE" default:"@hourly"`

	LogFormat         string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	OpenAPIValidation bool   `envconfig:"OPENAPI_VALIDATION" default:"true"`
	SSLRedirect       bool   `envconfig:"SSL_REDIRECT" default:"false"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver))
	}
	if c.DeliveryFee < 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_FEE must not be negative, got %d", c.DeliveryFee))
	}
	if c.LowBalanceThreshold < 0 {
		errs = append(errs, fmt.Errorf("LOW_BALANCE_THRESHOLD must not be negative, got %d", c.LowBalanceThreshold))
	}
	if c.CodeMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("CODE_MAX_ATTEMPTS must not be negative, got %d", c.CodeMaxAttempts))
	}
	if c.CodeRateLimit < 1 || c.CodeRateWindow <= 0 {
		errs = append(errs, errors.New("CODE_RATE_LIMIT and CODE_RATE_WINDOW must be positive"))
	}
	if c.VerifyRateLimit < 0 || (c.VerifyRateLimit > 0 && c.VerifyRateWindow <= 0) {
		errs = append(errs, errors.New("VERIFY_RATE_WINDOW must be positive when VERIFY_RATE_LIMIT is set"))
	}
	if c.OutboxBatchSize < 1 {
		errs = append(errs, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize))
	}
	if c.OutboxRetention <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_RETENTION must be positive, got %s", c.OutboxRetention))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DSN is the PostgreSQL connection string in key=value form.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) Policy() commands.Policy {
	return commands.Policy{
		MaxConflictRetries:  c.MaxConflictRetries,
		MaxCodeAttempts:     c.CodeMaxAttempts,
		DeliveryFee:         kernel.Money(c.DeliveryFee),
		Currency:            c.Currency,
		LowBalanceThreshold: kernel.Money(c.LowBalanceThreshold),
		Now:                 time.Now,
	}
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// NewLogger writes JSON when LOG_FORMAT is json and text otherwise.
func NewLogger(c Config) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
