package app

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/repository"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTracker(t *testing.T) *service.TrackerService {
	t.Helper()

	ctx := context.Background()
	store := storage.NewRecordStore(storage.NewMemoryBackend(), zap.NewNop())
	clock := func() time.Time { return fixedNow }

	attendance := repository.NewAttendanceRepository(ctx, store, zap.NewNop(), repository.WithClock(clock))
	students := repository.NewStudentRepository(ctx, store, attendance, zap.NewNop(), repository.WithClock(clock))

	return service.NewTrackerService(students, attendance, zap.NewNop(),
		service.WithClock(clock), service.WithLocation(time.UTC))
}

func addStudent(t *testing.T, tracker *service.TrackerService, name string, used int, endDate string) {
	t.Helper()
	_, err := tracker.AddStudent(context.Background(), service.NewStudent{
		FullName:     name,
		Course:       model.CourseDesign,
		StartDate:    "2026-02-01",
		EndDate:      endDate,
		TotalClasses: 8,
		UsedClasses:  used,
	})
	require.NoError(t, err)
}
