package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/out/codegen"
	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/adapters/out/notifications"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redisstore"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Infrastructure holds the outbound adapters the use cases run on.
type Infrastructure struct {
	UoWFactory  ports.UnitOfWorkFactory
	Limiter     ports.AttemptLimiter
	Idempotency ports.IdempotencyStore
	Publisher   ports.EventPublisher
	Generator   ports.CodeGenerator

	closers []func() error
}

// NewInMemoryInfrastructure keeps everything in process memory and logs events.
func NewInMemoryInfrastructure(cfg Config, log *slog.Logger) *Infrastructure {
	return &Infrastructure{
		UoWFactory:  memory.NewUnitOfWorkFactory(memory.NewStore()),
		Limiter:     memory.NewAttemptLimiter(cfg.CodeRateLimit, cfg.CodeRateWindow, time.Now),
		Idempotency: memory.NewIdempotencyStore(time.Now),
		Publisher:   notifications.NewLogPublisher(log),
		Generator:   codegen.NewGenerator(),
	}
}

// OpenInfrastructure connects the adapters selected by the configuration.
// Close releases every connection it opened.
func OpenInfrastructure(ctx context.Context, cfg Config, log *slog.Logger) (*Infrastructure, error) {
	infra := NewInMemoryInfrastructure(cfg, log)

	if cfg.StorageDriver == StoragePostgres {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database handle: %w", err)
		}
		infra.closers = append(infra.closers, sqlDB.Close)
		if err = postgres.Migrate(db.WithContext(ctx)); err != nil {
			_ = infra.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		infra.UoWFactory = postgres.NewGormUnitOfWorkFactory(db)
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		infra.closers = append(infra.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = infra.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		infra.Limiter = redisstore.NewAttemptLimiter(client, cfg.CodeRateLimit, cfg.CodeRateWindow)
		infra.Idempotency = redisstore.NewIdempotencyStore(client)
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := notifications.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		infra.closers = append(infra.closers, writer.Close)
		infra.Publisher = notifications.NewKafkaPublisher(writer, log)
	}

	return infra, nil
}

func (i *Infrastructure) Close() error {
	var errs []error
	for j := len(i.closers) - 1; j >= 0; j-- {
		errs = append(errs, i.closers[j]())
	}
	i.closers = nil
	return errors.Join(errs...)
}

func openDatabase(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
