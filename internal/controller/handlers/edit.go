package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

var errCourseByButton = errors.New("course is chosen with buttons")

// Подсказки при неверном вводе, диалог при этом продолжается
var editHints = map[state.EditField]string{
	state.FieldName:   "❌ Введите ФИО (до 120 символов):",
	state.FieldAge:    "❌ Введите возраст числом, например 10:",
	state.FieldCourse: "Выберите курс кнопкой выше.",
	state.FieldStart:  "❌ Дата в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ, не позже окончания:",
	state.FieldEnd:    "❌ Дата в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ, не раньше начала:",
	state.FieldTotal:  "❌ Введите число занятий от 1 до 200:",
	state.FieldUsed:   "❌ Введите число от 0 до 200:",
}

func (h *Handlers) handleEditInput(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	studentID, field, ok := h.stateManager.EditTarget(telegramID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	err := ApplyEdit(ctx, h.tracker, studentID, field, text)
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, formatting.ErrorMessage(err))
		return
	case isInputError(err):
		hint, ok := editHints[field]
		if !ok {
			hint = formatting.ErrorMessage(err)
		}
		h.sendMessage(ctx, b, chatID, hint)
		return
	case err != nil:
		h.stateManager.ClearState(telegramID)
		h.logger.Error("Failed to save edit",
			zap.String("student_id", studentID),
			zap.String("field", string(field)),
			zap.Error(err),
		)
		h.sendMessage(ctx, b, chatID, "⚠️ Изменение применено, но сохранить данные не удалось.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Student edited",
		zap.String("student_id", studentID),
		zap.String("field", string(field)),
	)
	h.sendCard(ctx, b, chatID, studentID, "✅ Сохранено")
}

// isInputError ошибки ввода, после которых пользователь может попробовать ещё раз
func isInputError(err error) bool {
	for _, target := range []error{
		errBadAge, errBadName, errBadClasses, errBadDate, errCourseByButton,
		service.ErrEmptyName, service.ErrInvalidCourse, service.ErrInvalidDate, service.ErrInvalidClasses,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ApplyEdit разбирает введённое значение поля и сохраняет его через сервис.
// «-» очищает телефон и заметки
func ApplyEdit(ctx context.Context, tracker *service.TrackerService, studentID string, field state.EditField, text string) error {
	switch field {
	case state.FieldName:
		name, err := ParseName(text)
		if err != nil {
			return err
		}
		return tracker.UpdateStudent(ctx, studentID, model.StudentPatch{FullName: &name})

	case state.FieldAge:
		age, err := ParseAge(text)
		if err != nil {
			return err
		}
		return tracker.UpdateStudent(ctx, studentID, model.StudentPatch{Age: &age})

	case state.FieldPhone:
		phone := optionalText(text)
		return tracker.UpdateStudent(ctx, studentID, model.StudentPatch{ParentPhone: &phone})

	case state.FieldNotes:
		notes := optionalText(text)
		return tracker.UpdateStudent(ctx, studentID, model.StudentPatch{Notes: &notes})

	case state.FieldStart, state.FieldEnd:
		date, err := ParseDate(text)
		if err != nil {
			return err
		}
		if field == state.FieldStart {
			return tracker.UpdateSubscription(ctx, studentID, model.SubscriptionPatch{StartDate: &date})
		}
		return tracker.UpdateSubscription(ctx, studentID, model.SubscriptionPatch{EndDate: &date})

	case state.FieldTotal:
		total, err := parseCount(text, 1)
		if err != nil {
			return err
		}
		return tracker.UpdateSubscription(ctx, studentID, model.SubscriptionPatch{TotalClasses: &total})

	case state.FieldUsed:
		used, err := parseCount(text, 0)
		if err != nil {
			return err
		}
		return tracker.UpdateSubscription(ctx, studentID, model.SubscriptionPatch{UsedClasses: &used})

	case state.FieldCourse:
		return errCourseByButton

	default:
		return errors.New("unknown field " + string(field))
	}
}
