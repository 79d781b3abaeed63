package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/service"
	"go.uber.org/zap"
)

// Notifier доставляет пачку напоминаний о продлении
type Notifier interface {
	Notify(ctx context.Context, due []service.StudentView) error
}

// LogNotifier пишет напоминания в лог, используется когда бот не настроен
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, due []service.StudentView) error {
	for _, v := range due {
		n.logger.Info("Subscription needs renewal",
			zap.String("student_id", v.ID),
			zap.String("full_name", v.FullName),
			zap.String("status", string(v.Status)),
			zap.Int("classes_left", v.ClassesLeft),
			zap.String("end_date", v.Subscription.EndDate),
		)
	}
	return nil
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reminders *service.ReminderService
	notifier  Notifier
	metrics   *Metrics
	interval  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewScheduler создаёт новый планировщик. metrics может быть nil
func NewScheduler(
	reminders *service.ReminderService,
	notifier Notifier,
	metrics *Metrics,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		notifier:  notifier,
		metrics:   metrics,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи и дожидается их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReminderTask периодически собирает напоминания о продлении
func (s *Scheduler) runReminderTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// RunOnce один проход: метрики и уведомление
func (s *Scheduler) RunOnce(ctx context.Context) {
	due := s.reminders.Due()

	if s.metrics != nil {
		s.metrics.Observe(s.reminders.StatusCounts(), len(due))
	}

	if len(due) == 0 {
		s.logger.Debug("No subscriptions to renew")
		return
	}

	if err := s.notifier.Notify(ctx, due); err != nil {
		s.logger.Error("Failed to send reminders", zap.Error(err))
		return
	}

	s.logger.Info("Reminders sent", zap.Int("count", len(due)))
}
