package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/attendance_bot/internal/config"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"go.uber.org/zap"
)

// OpenBackend создаёт хранилище коллекций по конфигурации.
// Для Postgres сразу применяются миграции
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Backend, error) {
	logger.Info("Opening storage", zap.String("backend", cfg.StorageBackend))

	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("⚠️  Memory storage: data is lost on restart")
		return storage.NewMemoryBackend(), nil

	case config.BackendFile:
		backend, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		return backend, nil

	case config.BackendRedis:
		backend, err := storage.NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return backend, nil

	case config.BackendPostgres:
		backend, err := storage.NewPostgresBackend(ctx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}

		migrator, err := NewMigrator(backend.Pool(), logger)
		if err != nil {
			backend.Close()
			return nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			backend.Close()
			return nil, err
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// NewRecordStore оборачивает хранилище с учётом режима надёжности записи
func NewRecordStore(backend storage.Backend, cfg *config.Config, logger *zap.Logger) *storage.RecordStore {
	var opts []storage.Option
	if cfg.StrictDurability {
		opts = append(opts, storage.WithStrictDurability())
	}
	return storage.NewRecordStore(backend, logger.Named("storage"), opts...)
}
