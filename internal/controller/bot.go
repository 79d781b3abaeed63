package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/attendance_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/attendance_bot/internal/controller/handlers"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	adminChatIDs    []int64
	logger          *zap.Logger
}

// NewBotController создаёт бота. Пустой adminChatIDs пускает всех и отключает рассылку напоминаний
func NewBotController(
	token string,
	tracker *service.TrackerService,
	adminChatIDs []int64,
	isAdmin func(chatID int64) bool,
	logger *zap.Logger,
) (*BotController, error) {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(tracker, stateManager, isAdmin, logger)
	callbackHandler := callbacks.NewHandler(tracker, stateManager, logger)

	// Текст вне команд уходит в диалоги
	botInstance, err := bot.New(token,
		bot.WithMiddlewares(cmdHandlers.AdminOnly),
		bot.WithDefaultHandler(cmdHandlers.HandleTextMessage),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		adminChatIDs:    adminChatIDs,
		logger:          logger,
	}, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/dashboard", bot.MatchTypeExact, c.handlers.HandleDashboard)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/students", bot.MatchTypePrefix, c.handlers.HandleStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/subscriptions", bot.MatchTypeExact, c.handlers.HandleSubscriptions)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypePrefix, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypeExact, c.handlers.HandleAddStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "dashboard", Description: "📋 Сводка на сегодня"},
		{Command: "today", Description: "🗓 Отметить посещения"},
		{Command: "students", Description: "👥 Ученики и поиск по имени"},
		{Command: "subscriptions", Description: "🎫 Абонементы"},
		{Command: "add", Description: "➕ Добавить ученика"},
		{Command: "cancel", Description: "❌ Отменить действие"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// Notify рассылает напоминания о продлении всем администраторам
func (c *BotController) Notify(ctx context.Context, due []service.StudentView) error {
	text := service.FormatReminders(due)
	if text == "" {
		return nil
	}
	if len(c.adminChatIDs) == 0 {
		c.logger.Warn("ADMIN_CHAT_IDS is empty, reminders are not delivered", zap.Int("count", len(due)))
		return nil
	}

	var errs []error
	for _, chatID := range c.adminChatIDs {
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send reminders to %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}
