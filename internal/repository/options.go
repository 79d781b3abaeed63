package repository

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   func() time.Time
	newID func() string
}

// Option настраивает репозиторий (часы и генератор ID подменяются в тестах)
type Option func(*options)

// WithClock подменяет источник текущего времени
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.now = clock
	}
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.newID = gen
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
