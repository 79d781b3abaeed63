package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SchemaVersion текущая версия формата сохранённых коллекций.
// Версия 0: голый JSON-массив без обёртки (старый формат)
const SchemaVersion = 1

const defaultTimeout = 5 * time.Second

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// RecordStore сохраняет и загружает коллекции целиком.
// По умолчанию работает в режиме best-effort: ошибки записи логируются и не возвращаются,
// битые данные при загрузке заменяются пустой коллекцией
type RecordStore struct {
	backend Backend
	logger  *zap.Logger
	strict  bool
	timeout time.Duration
}

// Option настраивает RecordStore
type Option func(*RecordStore)

// WithStrictDurability заставляет Save возвращать ошибки записи
func WithStrictDurability() Option {
	return func(s *RecordStore) {
		s.strict = true
	}
}

// WithTimeout ограничивает время одной операции с хранилищем
func WithTimeout(d time.Duration) Option {
	return func(s *RecordStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewRecordStore(backend Backend, logger *zap.Logger, opts ...Option) *RecordStore {
	s := &RecordStore{
		backend: backend,
		logger:  logger,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strict сообщает, пробрасываются ли ошибки записи
func (s *RecordStore) Strict() bool {
	return s.strict
}

// Close закрывает нижележащее хранилище
func (s *RecordStore) Close() error {
	return s.backend.Close()
}

// Save сериализует коллекцию в конверт с версией и записывает её целиком
func (s *RecordStore) Save(ctx context.Context, collection string, items any) error {
	payload, err := encode(items)
	if err == nil {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err = s.backend.Write(opCtx, collection, payload)
		cancel()
	}
	if err == nil {
		return nil
	}

	s.logger.Error("Failed to save collection",
		zap.String("collection", collection),
		zap.Bool("strict", s.strict),
		zap.Error(err),
	)
	if s.strict {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

func (s *RecordStore) read(ctx context.Context, collection string) ([]byte, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.backend.Read(opCtx, collection)
}

// Load загружает коллекцию. Отсутствующая или битая коллекция даёт пустой срез, ошибка не возвращается
func Load[T any](ctx context.Context, s *RecordStore, collection string) []T {
	items, err := Fetch[T](ctx, s, collection)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Collection unreadable, starting empty",
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
		return []T{}
	}
	return items
}

// Fetch загружает коллекцию и сообщает об ошибках: ErrNotFound, ErrCorrupt или ошибку хранилища
func Fetch[T any](ctx context.Context, s *RecordStore, collection string) ([]T, error) {
	data, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}

	raw, version, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", collection, err)
	}

	items := []T{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", collection, ErrCorrupt, err)
		}
	}
	if items == nil {
		items = []T{}
	}

	if version < SchemaVersion {
		s.logger.Info("Loaded collection in legacy format",
			zap.String("collection", collection),
			zap.Int("version", version),
		)
	}
	return items, nil
}

func encode(items any) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	if bytes.Equal(raw, []byte("null")) {
		raw = []byte("[]")
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: raw})
}

// decode разбирает конверт и возвращает сырые элементы и версию схемы
func decode(data []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, ErrCorrupt
	}

	if trimmed[0] == '[' {
		return json.RawMessage(trimmed), 0, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version > SchemaVersion {
		return nil, env.Version, fmt.Errorf("%w: unsupported schema version %d", ErrCorrupt, env.Version)
	}
	if bytes.Equal(bytes.TrimSpace(env.Items), []byte("null")) {
		return nil, env.Version, nil
	}
	return env.Items, env.Version, nil
}
