package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Ограничения ввода в диалоге добавления
const (
	MinAge        = 3
	MaxAge        = 99
	MaxNameLength = 120
	MaxClasses    = 200
	skipInput     = "-"
)

var (
	errBadAge     = errors.New("bad age")
	errBadName    = errors.New("bad name")
	errBadClasses = errors.New("bad classes")
	errBadDate    = errors.New("bad date")
)

// HandleAddStart обрабатывает команду /add
func (h *Handlers) HandleAddStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateAddName)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"➕ Новый ученик\n\nШаг 1/7. Введите ФИО ученика:\n\n/cancel - отменить")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch h.stateManager.GetState(telegramID) {
	case state.StateAddName:
		h.handleAddName(ctx, b, telegramID, chatID, text)
	case state.StateAddAge:
		h.handleAddAge(ctx, b, telegramID, chatID, text)
	case state.StateAddPhone:
		h.handleAddPhone(ctx, b, telegramID, chatID, text)
	case state.StateAddCourse:
		h.sendWithKeyboard(ctx, b, chatID, "Выберите курс кнопкой ниже:", keyboard.Courses(keyboard.AddCourse))
	case state.StateAddClasses:
		h.handleAddClasses(ctx, b, telegramID, chatID, text)
	case state.StateAddDates:
		h.handleAddDates(ctx, b, telegramID, chatID, text)
	case state.StateAddNotes:
		h.handleAddNotes(ctx, b, telegramID, chatID, text)
	case state.StateEditField:
		h.handleEditInput(ctx, b, telegramID, chatID, text)
	default:
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", telegramID))
	}
}

func (h *Handlers) handleAddName(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	name, err := ParseName(text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ Введите ФИО (до 120 символов):")
		return
	}

	h.stateManager.Advance(telegramID, state.StateAddAge, func(d *service.NewStudent) {
		d.FullName = name
	})
	h.sendMessage(ctx, b, chatID, "Шаг 2/7. Возраст ученика:")
}

func (h *Handlers) handleAddAge(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	age, err := ParseAge(text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ Введите возраст числом, например 10:")
		return
	}

	h.stateManager.Advance(telegramID, state.StateAddPhone, func(d *service.NewStudent) {
		d.Age = age
	})
	h.sendMessage(ctx, b, chatID, "Шаг 3/7. Телефон родителя (или «-» чтобы пропустить):")
}

func (h *Handlers) handleAddPhone(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	phone := optionalText(text)

	h.stateManager.Advance(telegramID, state.StateAddCourse, func(d *service.NewStudent) {
		d.ParentPhone = phone
	})
	h.sendWithKeyboard(ctx, b, chatID, "Шаг 4/7. Выберите курс:", keyboard.Courses(keyboard.AddCourse))
}

func (h *Handlers) handleAddClasses(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	total, used, err := ParseClassCount(text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ Введите число занятий от 1 до 200, например 8 или 8/3, либо «-»:")
		return
	}

	h.stateManager.Advance(telegramID, state.StateAddDates, func(d *service.NewStudent) {
		d.TotalClasses = total
		d.UsedClasses = used
	})
	h.sendMessage(ctx, b, chatID, "Шаг 6/7. Даты абонемента: начало и окончание через пробел, "+
		"например 2026-03-01 2026-03-31. Можно указать только начало. «-» означает с сегодня на "+
		strconv.Itoa(service.DefaultSubscriptionDays)+" дней:")
}

func (h *Handlers) handleAddDates(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	start, end, err := ParseDateRange(text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ Даты в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ, окончание не раньше начала. Или «-»:")
		return
	}

	h.stateManager.Advance(telegramID, state.StateAddNotes, func(d *service.NewStudent) {
		d.StartDate = start
		d.EndDate = end
	})
	h.sendMessage(ctx, b, chatID, "Шаг 7/7. Заметки об ученике (или «-» чтобы пропустить):")
}

func (h *Handlers) handleAddNotes(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	draft := h.stateManager.Draft(telegramID)
	draft.Notes = optionalText(text)

	student, err := h.tracker.AddStudent(ctx, draft)
	if err != nil && student.ID == "" {
		h.logger.Warn("Failed to add student", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, formatting.ErrorMessage(err)+"\n\nПопробуйте ещё раз: /add")
		h.stateManager.ClearState(telegramID)
		return
	}
	h.stateManager.ClearState(telegramID)

	if err != nil {
		// Ученик добавлен в память, но запись на диск не удалась
		h.logger.Error("Student added but not persisted", zap.String("student_id", student.ID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, "⚠️ Ученик добавлен, но сохранить данные не удалось.")
	}

	h.sendCard(ctx, b, chatID, student.ID, "✅ Ученик добавлен")
}

// sendCard отправляет карточку ученика с действиями. notice выводится над карточкой
func (h *Handlers) sendCard(ctx context.Context, b *bot.Bot, chatID int64, id, notice string) {
	view, err := h.tracker.Student(id)
	if err != nil {
		h.sendMessage(ctx, b, chatID, formatting.ErrorMessage(err))
		return
	}
	h.sendWithKeyboard(ctx, b, chatID,
		notice+"\n\n"+formatting.FormatStudentCard(view, h.tracker.AttendanceStats(view.ID)),
		keyboard.StudentCard(view.ID))
}

func optionalText(text string) string {
	text = strings.TrimSpace(text)
	if text == skipInput {
		return ""
	}
	return text
}

// ParseName проверяет ФИО ученика
func ParseName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return "", errBadName
	}
	return name, nil
}

// ParseAge разбирает возраст ученика
func ParseAge(text string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || age < MinAge || age > MaxAge {
		return 0, errBadAge
	}
	return age, nil
}

// ParseClasses разбирает число занятий. «-» означает значение по умолчанию (0)
func ParseClasses(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == skipInput {
		return 0, nil
	}
	return parseCount(text, 1)
}

// ParseClassCount разбирает «всего» или «всего/использовано». «-» означает значения по умолчанию
func ParseClassCount(text string) (total, used int, err error) {
	text = strings.TrimSpace(text)
	totalText, usedText, hasUsed := strings.Cut(text, "/")
	if total, err = ParseClasses(totalText); err != nil {
		return 0, 0, err
	}
	if !hasUsed {
		return total, 0, nil
	}

	limit := total
	if limit == 0 {
		limit = service.DefaultTotalClasses
	}
	if used, err = parseCount(usedText, 0); err != nil || used > limit {
		return 0, 0, errBadClasses
	}
	return total, used, nil
}

func parseCount(text string, lowest int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < lowest || n > MaxClasses {
		return 0, errBadClasses
	}
	return n, nil
}

// ParseDate разбирает дату в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ и возвращает ГГГГ-ММ-ДД
func ParseDate(text string) (string, error) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{model.DateLayout, "02.01.2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return model.FormatDate(t), nil
		}
	}
	return "", errBadDate
}

// ParseDateRange разбирает «начало [окончание]». «-» оставляет обе даты пустыми
func ParseDateRange(text string) (start, end string, err error) {
	fields := strings.Fields(text)
	switch {
	case len(fields) == 1 && fields[0] == skipInput:
		return "", "", nil
	case len(fields) == 0 || len(fields) > 2:
		return "", "", errBadDate
	}

	if start, err = ParseDate(fields[0]); err != nil {
		return "", "", err
	}
	if len(fields) == 1 {
		return start, "", nil
	}
	if end, err = ParseDate(fields[1]); err != nil {
		return "", "", err
	}
	if end < start {
		return "", "", errBadDate
	}
	return start, end, nil
}
