package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/repository"
	"github.com/Freeeeeet/attendance_bot/internal/subscription"
	"go.uber.org/zap"
)

const (
	// DefaultTotalClasses занятий в новом или продлённом абонементе
	DefaultTotalClasses = 8
	// DefaultSubscriptionDays длительность абонемента по умолчанию
	DefaultSubscriptionDays = 30
	// DashboardExpiringLimit сколько заканчивающихся абонементов показывать на панели
	DashboardExpiringLimit = 5
)

// StudentView ученик вместе с вычисленным состоянием абонемента
type StudentView struct {
	model.Student
	Status      model.SubscriptionStatus
	ClassesLeft int
	DaysLeft    int
}

// StudentFilter фильтр списка учеников. Пустые поля не фильтруют
type StudentFilter struct {
	Status model.SubscriptionStatus
	Course model.Course
	Query  string
}

// NewStudent данные для добавления ученика. Незаполненные поля абонемента получают значения по умолчанию
type NewStudent struct {
	FullName     string
	Age          int
	ParentPhone  string
	Course       model.Course
	StartDate    string
	EndDate      string
	TotalClasses int
	UsedClasses  int
	Notes        string
}

// Dashboard сводка для главного экрана
type Dashboard struct {
	Stats        model.StudentStats
	PresentToday int
	Expiring     []StudentView
}

// TrackerService граница между интерфейсом (ботом) и репозиториями
type TrackerService struct {
	students   *repository.StudentRepository
	attendance *repository.AttendanceRepository
	clock      func() time.Time
	location   *time.Location
	logger     *zap.Logger
}

// TrackerOption настраивает TrackerService
type TrackerOption func(*TrackerService)

// WithClock подменяет источник текущего времени
func WithClock(clock func() time.Time) TrackerOption {
	return func(s *TrackerService) {
		s.clock = clock
	}
}

// WithLocation задаёт часовой пояс, в котором определяется "сегодня"
func WithLocation(loc *time.Location) TrackerOption {
	return func(s *TrackerService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewTrackerService(
	students *repository.StudentRepository,
	attendance *repository.AttendanceRepository,
	logger *zap.Logger,
	opts ...TrackerOption,
) *TrackerService {
	s := &TrackerService{
		students:   students,
		attendance: attendance,
		clock:      time.Now,
		location:   time.Local,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now текущее время в часовом поясе сервиса
func (s *TrackerService) Now() time.Time {
	return s.clock().In(s.location)
}

// Today сегодняшняя дата в формате YYYY-MM-DD
func (s *TrackerService) Today() string {
	return model.FormatDate(s.Now())
}

// ===== Запросы =====

// Students возвращает всех учеников
func (s *TrackerService) Students() []model.Student {
	return s.students.List()
}

// Records возвращает все отметки посещений
func (s *TrackerService) Records() []model.AttendanceRecord {
	return s.attendance.List()
}

// Student возвращает ученика с вычисленным статусом
func (s *TrackerService) Student(id string) (StudentView, error) {
	st, ok := s.students.Get(id)
	if !ok {
		return StudentView{}, ErrStudentNotFound
	}
	return s.view(st, s.Now()), nil
}

// StatusOf вычисляет статус абонемента на текущий момент
func (s *TrackerService) StatusOf(sub model.Subscription) model.SubscriptionStatus {
	return subscription.Status(sub, s.Now())
}

// AttendanceStats статистика посещаемости ученика
func (s *TrackerService) AttendanceStats(studentID string) model.AttendanceStats {
	return s.attendance.Stats(studentID)
}

// StudentStats сводка по статусам абонементов
func (s *TrackerService) StudentStats() model.StudentStats {
	return s.students.Stats(s.Now())
}

// Views возвращает всех учеников с вычисленным статусом в порядке добавления
func (s *TrackerService) Views() []StudentView {
	now := s.Now()
	students := s.students.List()

	views := make([]StudentView, 0, len(students))
	for _, st := range students {
		views = append(views, s.view(st, now))
	}
	return views
}

// FilterStudents фильтрует учеников по статусу, курсу и подстроке имени (без учёта регистра)
func (s *TrackerService) FilterStudents(filter StudentFilter) []StudentView {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	result := []StudentView{}
	for _, v := range s.Views() {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Course != "" && v.Course != filter.Course {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(v.FullName), query) {
			continue
		}
		result = append(result, v)
	}
	return result
}

// Subscriptions список абонементов: сначала заканчивающиеся, потом исчерпанные, просроченные и активные
func (s *TrackerService) Subscriptions(status model.SubscriptionStatus) []StudentView {
	views := s.FilterStudents(StudentFilter{Status: status})
	sort.SliceStable(views, func(i, j int) bool {
		return subscription.Rank(views[i].Status) < subscription.Rank(views[j].Status)
	})
	return views
}

// AttendableStudents ученики, которых можно отмечать: абонемент активен или заканчивается
func (s *TrackerService) AttendableStudents() []StudentView {
	result := []StudentView{}
	for _, v := range s.Views() {
		if v.Status == model.SubscriptionStatusActive || v.Status == model.SubscriptionStatusExpiring {
			result = append(result, v)
		}
	}
	return result
}

// AttendanceOn отметки за указанный день
func (s *TrackerService) AttendanceOn(date string) []model.AttendanceRecord {
	return s.attendance.ByDate(date)
}

// DaySheet ученики для отметки за день и уже поставленные отметки.
// Кроме учеников с действующим абонементом попадают все, у кого есть отметка за этот день
func (s *TrackerService) DaySheet(date string) ([]StudentView, []model.AttendanceRecord, error) {
	if _, err := model.ParseDate(date, s.location); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	records := s.attendance.ByDate(date)
	marked := make(map[string]bool, len(records))
	for _, rec := range records {
		marked[rec.StudentID] = true
	}

	views := []StudentView{}
	for _, v := range s.Views() {
		attendable := v.Status == model.SubscriptionStatusActive || v.Status == model.SubscriptionStatusExpiring
		if attendable || marked[v.ID] {
			views = append(views, v)
		}
	}
	return views, records, nil
}

// StudentHistory отметки ученика, новые сверху
func (s *TrackerService) StudentHistory(studentID string) []model.AttendanceRecord {
	records := s.attendance.ByStudent(studentID)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

// Dashboard сводка: статистика, присутствующие сегодня и ближайшие заканчивающиеся абонементы
func (s *TrackerService) Dashboard() Dashboard {
	now := s.Now()
	today := model.FormatDate(now)

	presentToday := 0
	for _, rec := range s.attendance.ByDate(today) {
		if rec.Present {
			presentToday++
		}
	}

	expiring := s.FilterStudents(StudentFilter{Status: model.SubscriptionStatusExpiring})
	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].Subscription.EndDate < expiring[j].Subscription.EndDate
	})
	if len(expiring) > DashboardExpiringLimit {
		expiring = expiring[:DashboardExpiringLimit]
	}

	return Dashboard{
		Stats:        s.students.Stats(now),
		PresentToday: presentToday,
		Expiring:     expiring,
	}
}

// ===== Команды =====

// AddStudent проверяет данные, подставляет значения по умолчанию и добавляет ученика
func (s *TrackerService) AddStudent(ctx context.Context, in NewStudent) (model.Student, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return model.Student{}, ErrEmptyName
	}

	course := in.Course
	if course == "" {
		course = model.Courses()[0]
	}
	if !course.Valid() {
		return model.Student{}, fmt.Errorf("%w: %q", ErrInvalidCourse, course)
	}

	sub, err := s.newSubscription(in)
	if err != nil {
		return model.Student{}, err
	}

	student, err := s.students.Add(ctx, model.StudentInput{
		FullName:     name,
		Age:          in.Age,
		ParentPhone:  strings.TrimSpace(in.ParentPhone),
		Course:       course,
		Subscription: sub,
		Notes:        strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return student, fmt.Errorf("add student: %w", err)
	}
	return student, nil
}

func (s *TrackerService) newSubscription(in NewStudent) (model.Subscription, error) {
	loc := s.location

	start := in.StartDate
	if start == "" {
		start = s.Today()
	}
	startDate, err := model.ParseDate(start, loc)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}

	end := in.EndDate
	if end == "" {
		end = model.FormatDate(startDate.AddDate(0, 0, DefaultSubscriptionDays))
	}
	endDate, err := model.ParseDate(end, loc)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	if endDate.Before(startDate) {
		return model.Subscription{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDate, end, start)
	}

	total := in.TotalClasses
	if total == 0 {
		total = DefaultTotalClasses
	}
	if total < 0 || in.UsedClasses < 0 {
		return model.Subscription{}, ErrInvalidClasses
	}

	return model.Subscription{
		StartDate:    start,
		EndDate:      end,
		TotalClasses: total,
		UsedClasses:  in.UsedClasses,
	}, nil
}

// UpdateStudent обновляет поля ученика
func (s *TrackerService) UpdateStudent(ctx context.Context, id string, patch model.StudentPatch) error {
	if _, ok := s.students.Get(id); !ok {
		return ErrStudentNotFound
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return ErrEmptyName
		}
		patch.FullName = &name
	}
	if patch.Course != nil && !patch.Course.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCourse, *patch.Course)
	}
	if patch.Subscription != nil {
		if err := s.validateSubscription(*patch.Subscription); err != nil {
			return err
		}
	}
	return s.students.Update(ctx, id, patch)
}

// DeleteStudent удаляет ученика вместе с посещениями
func (s *TrackerService) DeleteStudent(ctx context.Context, id string) error {
	st, ok := s.students.Get(id)
	if !ok {
		return ErrStudentNotFound
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Student removed with attendance",
		zap.String("student_id", id),
		zap.String("full_name", st.FullName),
	)
	return nil
}

// UpdateSubscription меняет переданные поля абонемента
func (s *TrackerService) UpdateSubscription(ctx context.Context, id string, patch model.SubscriptionPatch) error {
	st, ok := s.students.Get(id)
	if !ok {
		return ErrStudentNotFound
	}
	if err := s.validateSubscription(patch.Apply(st.Subscription)); err != nil {
		return err
	}
	return s.students.UpdateSubscription(ctx, id, patch)
}

// UseClass списывает занятие с абонемента
func (s *TrackerService) UseClass(ctx context.Context, id string) error {
	if _, ok := s.students.Get(id); !ok {
		return ErrStudentNotFound
	}
	return s.students.UseClass(ctx, id)
}

// RenewSubscription продлевает абонемент: с сегодняшнего дня на 30 дней, 8 занятий
func (s *TrackerService) RenewSubscription(ctx context.Context, id string) error {
	if _, ok := s.students.Get(id); !ok {
		return ErrStudentNotFound
	}

	now := s.Now()
	start := model.FormatDate(now)
	end := model.FormatDate(now.AddDate(0, 0, DefaultSubscriptionDays))
	total := DefaultTotalClasses
	used := 0

	err := s.students.UpdateSubscription(ctx, id, model.SubscriptionPatch{
		StartDate:    &start,
		EndDate:      &end,
		TotalClasses: &total,
		UsedClasses:  &used,
	})
	if err != nil {
		return err
	}

	s.logger.Info("Subscription renewed",
		zap.String("student_id", id),
		zap.String("start_date", start),
		zap.String("end_date", end),
	)
	return nil
}

// MarkAttendance отмечает посещение. Пустая дата означает сегодня
func (s *TrackerService) MarkAttendance(ctx context.Context, studentID, date string, present bool, notes string) error {
	if date == "" {
		date = s.Today()
	}
	if _, err := model.ParseDate(date, s.location); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if _, ok := s.students.Get(studentID); !ok {
		return ErrStudentNotFound
	}
	return s.attendance.Mark(ctx, studentID, date, present, strings.TrimSpace(notes))
}

// DeleteRecord удаляет отметку посещения
func (s *TrackerService) DeleteRecord(ctx context.Context, id string) error {
	return s.attendance.DeleteRecord(ctx, id)
}

// UnmarkAttendance снимает отметку ученика за день. Пустая дата означает сегодня
func (s *TrackerService) UnmarkAttendance(ctx context.Context, studentID, date string) error {
	if date == "" {
		date = s.Today()
	}
	for _, rec := range s.attendance.ByDate(date) {
		if rec.StudentID == studentID {
			return s.DeleteRecord(ctx, rec.ID)
		}
	}
	return ErrRecordNotFound
}

func (s *TrackerService) validateSubscription(sub model.Subscription) error {
	start, err := model.ParseDate(sub.StartDate, s.location)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidDate, sub.StartDate)
	}
	end, err := model.ParseDate(sub.EndDate, s.location)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidDate, sub.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidDate, sub.EndDate, sub.StartDate)
	}
	if sub.TotalClasses <= 0 || sub.UsedClasses < 0 {
		return ErrInvalidClasses
	}
	return nil
}

func (s *TrackerService) view(st model.Student, now time.Time) StudentView {
	return StudentView{
		Student:     st,
		Status:      subscription.Status(st.Subscription, now),
		ClassesLeft: subscription.ClassesLeft(st.Subscription),
		DaysLeft:    subscription.DaysLeft(st.Subscription, now),
	}
}
