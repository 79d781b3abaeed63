package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/app"
	"github.com/Freeeeeet/attendance_bot/internal/config"
	"github.com/Freeeeeet/attendance_bot/internal/controller"
	"github.com/Freeeeeet/attendance_bot/internal/repository"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Attendance bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting attendance bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageBackend),
		zap.Bool("strict_durability", cfg.StrictDurability),
		zap.Bool("bot_enabled", cfg.BotEnabled()),
	)

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	store := app.NewRecordStore(backend, cfg, logger)
	defer store.Close()

	// Посещения создаются первыми: они нужны репозиторию учеников для каскадного удаления
	attendanceRepo := repository.NewAttendanceRepository(ctx, store, logger.Named("attendance"))
	studentRepo := repository.NewStudentRepository(ctx, store, attendanceRepo, logger.Named("students"))

	tracker := service.NewTrackerService(studentRepo, attendanceRepo, logger.Named("tracker"),
		service.WithLocation(cfg.Location))
	reminders := service.NewReminderService(tracker, logger.Named("reminders"))

	var notifier app.Notifier = app.NewLogNotifier(logger.Named("reminders"))

	var botController *controller.BotController
	if cfg.BotEnabled() {
		botController, err = controller.NewBotController(cfg.TelegramToken, tracker, cfg.AdminChatIDs, cfg.IsAdmin, logger.Named("bot"))
		if err != nil {
			return err
		}
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
		notifier = botController
	} else {
		logger.Warn("⚠️  TELEGRAM_TOKEN is not set, running without bot")
	}

	metrics := app.NewMetrics()
	scheduler := app.NewScheduler(reminders, notifier, metrics, cfg.ReminderInterval, logger.Named("scheduler"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	var server *app.StatusServer
	if cfg.MetricsAddr != "" {
		health, _ := backend.(app.HealthChecker)
		server = app.NewStatusServer(cfg.MetricsAddr, tracker, metrics, health, logger.Named("http"))
		server.Start()
	}

	if botController != nil {
		// Блокируется до отмены контекста
		botController.Start(ctx)
	} else {
		<-ctx.Done()
	}

	logger.Info("Shutting down...")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Status server forced shutdown", zap.Error(err))
		}
	}

	logger.Info("Attendance bot exited")
	return nil
}
