package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"go.uber.org/zap"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type fixture struct {
	backend    *storage.MemoryBackend
	store      *storage.RecordStore
	clock      *clock
	students   *StudentRepository
	attendance *AttendanceRepository
}

func newFixture(t *testing.T, storeOpts ...storage.Option) *fixture {
	t.Helper()

	backend := storage.NewMemoryBackend()
	store := storage.NewRecordStore(backend, zap.NewNop(), storeOpts...)
	clk := &clock{t: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}

	ctx := context.Background()
	attendance := NewAttendanceRepository(ctx, store, zap.NewNop(),
		WithClock(clk.Now), WithIDGenerator(sequentialIDs("rec")))
	students := NewStudentRepository(ctx, store, attendance, zap.NewNop(),
		WithClock(clk.Now), WithIDGenerator(sequentialIDs("st")))

	return &fixture{
		backend:    backend,
		store:      store,
		clock:      clk,
		students:   students,
		attendance: attendance,
	}
}

func sampleInput() model.StudentInput {
	return model.StudentInput{
		FullName:    "Иванов Пётр",
		Age:         11,
		ParentPhone: "+7 900 000-00-00",
		Course:      model.CourseRobotics,
		Subscription: model.Subscription{
			StartDate:    "2026-03-01",
			EndDate:      "2026-03-31",
			TotalClasses: 8,
			UsedClasses:  0,
		},
		Notes: "любит конструкторы",
	}
}
