package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/dashboard - Сводка на сегодня\n" +
	"/students [имя] - Ученики, можно искать по имени\n" +
	"/subscriptions - Абонементы, сначала заканчивающиеся\n" +
	"/today [ГГГГ-ММ-ДД] - Отметить посещения за сегодня или другой день\n" +
	"/add - Добавить ученика\n" +
	"/cancel - Отменить текущее действие\n" +
	"/help - Показать эту справку\n\n" +
	"Нажмите на ученика, чтобы открыть карточку: там можно отметить посещение, списать занятие, продлить абонемент или изменить данные."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := update.Message.From.FirstName
	if name == "" {
		name = "коллега"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 Привет, "+name+"!\n\nЭто бот учёта посещений и абонементов.\n\n"+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleDashboard обрабатывает команду /dashboard
func (h *Handlers) HandleDashboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	d := h.tracker.Dashboard()
	text := formatting.FormatDashboard(d, h.tracker.Today())
	if len(d.Expiring) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, text)
		return
	}
	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, text, keyboard.StudentList(d.Expiring))
}

// HandleStudents обрабатывает команду /students [запрос]
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	query := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/students"))
	views := h.tracker.FilterStudents(service.StudentFilter{Query: query})

	title := "👥 Ученики"
	if query != "" {
		title = "🔍 Поиск «" + query + "»"
	}

	text := formatting.FormatStudentList(title, views)
	if len(views) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, text+"\n\nДобавить ученика: /add")
		return
	}
	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, text, keyboard.StudentList(views))
}

// HandleSubscriptions обрабатывает команду /subscriptions
func (h *Handlers) HandleSubscriptions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	views := h.tracker.Subscriptions("")
	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID,
		formatting.FormatStudentList("🎫 Абонементы", views),
		keyboard.SubscriptionFilters())
}

// HandleToday обрабатывает команду /today [ГГГГ-ММ-ДД]
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	date := h.tracker.Today()
	if arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/today")); arg != "" {
		parsed, err := ParseDate(arg)
		if err != nil {
			h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.ErrorMessage(service.ErrInvalidDate))
			return
		}
		date = parsed
	}

	views, records, err := h.tracker.DaySheet(date)
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.ErrorMessage(err))
		return
	}
	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID,
		formatting.FormatDaySheet(date, h.tracker.Today(), views, records),
		keyboard.DaySheet(views, date))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}
