package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/bbsdemo/internal/config"
	"github.com/aretw0/bbsdemo/pkg/adapters/file"
	"github.com/aretw0/bbsdemo/pkg/adapters/memory"
	"github.com/aretw0/bbsdemo/pkg/adapters/redis"
	"github.com/aretw0/bbsdemo/pkg/persistence/middleware"
	"github.com/aretw0/bbsdemo/pkg/ports"
)

// OpenStore builds the settings backend selected by cfg. The returned close
// function is never nil.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.KeyValueStore, func() error, error) {
	store, closeFn, err := openBackend(ctx, cfg, logger)
	if err != nil || cfg.Storage.EncryptionKey == "" {
		return store, closeFn, err
	}
	key, err := middleware.ParseKey(cfg.Storage.EncryptionKey)
	if err != nil {
		_ = closeFn()
		return nil, func() error { return nil }, fmt.Errorf("storage encryption: %w", err)
	}
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		_ = closeFn()
		return nil, func() error { return nil }, fmt.Errorf("storage encryption: %w", err)
	}
	logger.Debug("Settings encrypted at rest")
	return middleware.Chain(store, encrypt), closeFn, nil
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.KeyValueStore, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.Debug("Settings kept in memory")
		return memory.NewStore(), nop, nil
	case config.StorageRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nop, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Settings stored in redis", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return s, s.Close, nil
	case config.StorageFile:
		logger.Debug("Settings stored on disk", "path", cfg.Storage.Path)
		return file.New(cfg.Storage.Path), nop, nil
	}
	return nil, nop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
