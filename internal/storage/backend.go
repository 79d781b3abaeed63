// Package storage хранит коллекции записей (учеников и посещений)
// в одном пространстве имён: каталоге, базе Postgres или префиксе Redis.
package storage

import (
	"context"
	"errors"
)

// Имена коллекций фиксированы: по ним читаются уже сохранённые данные
const (
	CollectionStudents   = "attendance_students"
	CollectionAttendance = "attendance_records"
)

var (
	// ErrNotFound коллекция ещё ни разу не сохранялась
	ErrNotFound = errors.New("collection not found")
	// ErrCorrupt сохранённые данные не удалось разобрать
	ErrCorrupt = errors.New("collection data is corrupt")
	// ErrWriteRejected хранилище отказалось принять запись (например, переполнено)
	ErrWriteRejected = errors.New("write rejected")
)

// Backend сырое хранилище ключ-значение. Ошибки возвращаются как есть,
// решение о том, глотать их или нет, принимает RecordStore
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}
