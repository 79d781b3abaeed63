package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Backend = (*PostgresBackend)(nil)

// PostgresBackend хранит коллекции в таблице record_collections (одна строка на коллекцию).
// Схему создают миграции из пакета migrations
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend открывает пул соединений и проверяет доступность базы
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

// Pool возвращает пул соединений (нужен мигратору)
func (p *PostgresBackend) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresBackend) Read(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT payload
		FROM record_collections
		WHERE key = $1
	`

	var payload []byte
	err := p.pool.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read collection %s: %w", key, err)
	}
	return payload, nil
}

func (p *PostgresBackend) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO record_collections (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := p.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	return nil
}

// Healthy проверяет соединение с базой
func (p *PostgresBackend) Healthy(ctx context.Context) bool {
	return p.pool.Ping(ctx) == nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
