package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"github.com/Freeeeeet/attendance_bot/internal/subscription"
	"go.uber.org/zap"
)

// AttendancePurger удаляет посещения ученика при его удалении
type AttendancePurger interface {
	PurgeStudent(ctx context.Context, studentID string) error
}

// StudentRepository держит коллекцию учеников в памяти и сохраняет её целиком после каждого изменения
type StudentRepository struct {
	mu       sync.Mutex
	store    *storage.RecordStore
	purger   AttendancePurger
	students []model.Student
	opts     options
	logger   *zap.Logger
}

// NewStudentRepository загружает коллекцию учеников из хранилища.
// purger может быть nil, тогда каскадное удаление посещений не выполняется
func NewStudentRepository(
	ctx context.Context,
	store *storage.RecordStore,
	purger AttendancePurger,
	logger *zap.Logger,
	opts ...Option,
) *StudentRepository {
	students := storage.Load[model.Student](ctx, store, storage.CollectionStudents)

	logger.Info("Students loaded", zap.Int("count", len(students)))

	return &StudentRepository{
		store:    store,
		purger:   purger,
		students: students,
		opts:     buildOptions(opts),
		logger:   logger,
	}
}

// List возвращает копию всех учеников в порядке добавления
func (r *StudentRepository) List() []model.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Student(nil), r.students...)
}

// Add создаёт ученика с новым ID и временными метками.
// Ученик остаётся в памяти даже если запись в хранилище не удалась
func (r *StudentRepository) Add(ctx context.Context, in model.StudentInput) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timestamp()
	student := model.Student{
		ID:           r.opts.newID(),
		FullName:     in.FullName,
		Age:          in.Age,
		ParentPhone:  in.ParentPhone,
		Course:       in.Course,
		Subscription: in.Subscription,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	next := append(r.clone(), student)
	if err := r.commit(ctx, next); err != nil {
		return student, fmt.Errorf("add student: %w", err)
	}

	r.logger.Info("Student added",
		zap.String("student_id", student.ID),
		zap.String("course", string(student.Course)),
	)
	return student, nil
}

// Update применяет изменения к ученику. Неизвестный ID молча игнорируется
func (r *StudentRepository) Update(ctx context.Context, id string, patch model.StudentPatch) error {
	return r.modify(ctx, id, "update student", func(st model.Student) model.Student {
		return patch.Apply(st)
	})
}

// UpdateSubscription сливает переданные поля с текущим абонементом
func (r *StudentRepository) UpdateSubscription(ctx context.Context, id string, patch model.SubscriptionPatch) error {
	return r.modify(ctx, id, "update subscription", func(st model.Student) model.Student {
		st.Subscription = patch.Apply(st.Subscription)
		return st
	})
}

// UseClass списывает одно занятие, но не больше чем куплено
func (r *StudentRepository) UseClass(ctx context.Context, id string) error {
	return r.modify(ctx, id, "use class", func(st model.Student) model.Student {
		st.Subscription.UsedClasses = min(st.Subscription.UsedClasses+1, st.Subscription.TotalClasses)
		return st
	})
}

// Delete удаляет ученика и все его посещения.
// Это две независимые записи: падение между ними оставит осиротевшие посещения
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Student, 0, len(r.students))
	for _, st := range r.students {
		if st.ID != id {
			next = append(next, st)
		}
	}

	if len(next) != len(r.students) {
		if err := r.commit(ctx, next); err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		r.logger.Info("Student deleted", zap.String("student_id", id))
	}

	if r.purger == nil {
		return nil
	}
	if err := r.purger.PurgeStudent(ctx, id); err != nil {
		return fmt.Errorf("purge attendance: %w", err)
	}
	return nil
}

// Get ищет ученика по ID
func (r *StudentRepository) Get(id string) (model.Student, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return model.Student{}, false
	}
	return r.students[idx], true
}

// Stats считает учеников по статусам абонемента на момент now
func (r *StudentRepository) Stats(now time.Time) model.StudentStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := model.StudentStats{Total: len(r.students)}
	for _, st := range r.students {
		switch subscription.Status(st.Subscription, now) {
		case model.SubscriptionStatusActive:
			stats.Active++
		case model.SubscriptionStatusExpiring:
			stats.Expiring++
		case model.SubscriptionStatusExpired, model.SubscriptionStatusExhausted:
			stats.Expired++
		}
	}
	return stats
}

func (r *StudentRepository) modify(ctx context.Context, id, op string, fn func(model.Student) model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		r.logger.Debug("Student not found, nothing to do",
			zap.String("op", op),
			zap.String("student_id", id),
		)
		return nil
	}

	next := r.clone()
	updated := fn(next[idx])
	updated.ID = next[idx].ID
	updated.CreatedAt = next[idx].CreatedAt
	updated.UpdatedAt = r.timestamp()
	next[idx] = updated

	if err := r.commit(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// commit сохраняет коллекцию и подменяет состояние в памяти независимо от результата записи
func (r *StudentRepository) commit(ctx context.Context, next []model.Student) error {
	err := r.store.Save(ctx, storage.CollectionStudents, next)
	r.students = next
	return err
}

func (r *StudentRepository) clone() []model.Student {
	return append([]model.Student(nil), r.students...)
}

func (r *StudentRepository) indexOf(id string) int {
	for i, st := range r.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (r *StudentRepository) timestamp() time.Time {
	return r.opts.now().UTC()
}
