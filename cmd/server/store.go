package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"garagy/internal/config"
	"garagy/internal/repository"
)

const connectTimeout = 10 * time.Second

// openStore connects the document store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config, l *log.Logger) (repository.DocumentStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return repository.OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return repository.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		l.Warn("using the in-memory store; data is lost on exit")
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openPreviews uses redis when REDIS_ADDR is set, else an in-process map.
func openPreviews(ctx context.Context, cfg config.Config, l *log.Logger) (repository.PreviewStore, func() error, error) {
	if cfg.RedisAddr == "" {
		l.Warn("REDIS_ADDR not set; detection previews are kept in memory")
		return repository.NewMemoryPreviewStore(nil), func() error { return nil }, nil
	}
	client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return repository.NewRedisPreviewStore(client), client.Close, nil
}
