package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"go.uber.org/zap"
)

var _ AttendancePurger = (*AttendanceRepository)(nil)

// AttendanceRepository хранит отметки посещений, не больше одной на пару (ученик, дата)
type AttendanceRepository struct {
	mu      sync.Mutex
	store   *storage.RecordStore
	records []model.AttendanceRecord
	opts    options
	logger  *zap.Logger
}

func NewAttendanceRepository(ctx context.Context, store *storage.RecordStore, logger *zap.Logger, opts ...Option) *AttendanceRepository {
	records := storage.Load[model.AttendanceRecord](ctx, store, storage.CollectionAttendance)

	logger.Info("Attendance records loaded", zap.Int("count", len(records)))

	return &AttendanceRepository{
		store:   store,
		records: records,
		opts:    buildOptions(opts),
		logger:  logger,
	}
}

// List возвращает копию всех отметок
func (r *AttendanceRepository) List() []model.AttendanceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AttendanceRecord(nil), r.records...)
}

// Mark отмечает присутствие или отсутствие ученика в указанный день.
// Повторная отметка за тот же день перезаписывает Present и Notes и обновляет UpdatedAt
func (r *AttendanceRepository) Mark(ctx context.Context, studentID, date string, present bool, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timestamp()
	next := r.clone()

	existing := -1
	for i, rec := range next {
		if rec.StudentID == studentID && rec.Date == date {
			existing = i
			break
		}
	}

	if existing >= 0 {
		next[existing].Present = present
		next[existing].Notes = notes
		next[existing].UpdatedAt = now
	} else {
		next = append(next, model.AttendanceRecord{
			ID:        r.opts.newID(),
			StudentID: studentID,
			Date:      date,
			Present:   present,
			Notes:     notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := r.commit(ctx, next); err != nil {
		return fmt.Errorf("mark attendance: %w", err)
	}

	r.logger.Debug("Attendance marked",
		zap.String("student_id", studentID),
		zap.String("date", date),
		zap.Bool("present", present),
		zap.Bool("updated", existing >= 0),
	)
	return nil
}

// ByDate возвращает отметки за день в порядке добавления
func (r *AttendanceRepository) ByDate(date string) []model.AttendanceRecord {
	return r.filter(func(rec model.AttendanceRecord) bool { return rec.Date == date })
}

// ByStudent возвращает отметки ученика в порядке добавления
func (r *AttendanceRepository) ByStudent(studentID string) []model.AttendanceRecord {
	return r.filter(func(rec model.AttendanceRecord) bool { return rec.StudentID == studentID })
}

// Stats считает посещаемость ученика. Без отметок процент равен нулю
func (r *AttendanceRepository) Stats(studentID string) model.AttendanceStats {
	records := r.ByStudent(studentID)

	stats := model.AttendanceStats{Total: len(records)}
	for _, rec := range records {
		if rec.Present {
			stats.Present++
		}
	}
	stats.Absent = stats.Total - stats.Present
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Present) / float64(stats.Total) * 100))
	}
	return stats
}

// DeleteRecord удаляет одну отметку по ID
func (r *AttendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.AttendanceRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	if len(next) == len(r.records) {
		return nil
	}

	if err := r.commit(ctx, next); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// PurgeStudent удаляет все отметки ученика. Коллекция перечитывается из хранилища;
// если она не читается, каскад пропускается без ошибки
func (r *AttendanceRepository) PurgeStudent(ctx context.Context, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	persisted, err := storage.Fetch[model.AttendanceRecord](ctx, r.store, storage.CollectionAttendance)
	if err != nil {
		r.logger.Warn("Attendance unreadable, cascade skipped",
			zap.String("student_id", studentID),
			zap.Error(err),
		)
		return nil
	}

	keep := func(records []model.AttendanceRecord) []model.AttendanceRecord {
		out := make([]model.AttendanceRecord, 0, len(records))
		for _, rec := range records {
			if rec.StudentID != studentID {
				out = append(out, rec)
			}
		}
		return out
	}

	err = r.store.Save(ctx, storage.CollectionAttendance, keep(persisted))
	r.records = keep(r.records)
	if err != nil {
		return fmt.Errorf("purge student %s: %w", studentID, err)
	}
	return nil
}

func (r *AttendanceRepository) filter(match func(model.AttendanceRecord) bool) []model.AttendanceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.AttendanceRecord{}
	for _, rec := range r.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *AttendanceRepository) commit(ctx context.Context, next []model.AttendanceRecord) error {
	err := r.store.Save(ctx, storage.CollectionAttendance, next)
	r.records = next
	return err
}

func (r *AttendanceRepository) clone() []model.AttendanceRecord {
	return append([]model.AttendanceRecord(nil), r.records...)
}

func (r *AttendanceRepository) timestamp() time.Time {
	return r.opts.now().UTC()
}
