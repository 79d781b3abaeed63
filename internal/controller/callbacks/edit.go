package callbacks

import (
	"strconv"
	"strings"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"go.uber.org/zap"
)

const cancelHint = "\n\n/cancel - отменить"

func (h *Handler) handleEdit(hc *HandlerContext, id string) {
	view, err := h.tracker.Student(id)
	if err != nil {
		h.fail(hc, "edit student", id, err)
		return
	}
	hc.Answer("")
	hc.Show("✏️ Что изменить у ученика "+view.FullName+"?", keyboard.EditMenu(id))
}

// handleEditField arg имеет вид <поле>:<id>
func (h *Handler) handleEditField(hc *HandlerContext, arg string) {
	raw, id, _ := strings.Cut(arg, ":")
	field := state.EditField(raw)
	if !field.Valid() {
		hc.AnswerAlert("❓ Неизвестное поле")
		return
	}

	view, err := h.tracker.Student(id)
	if err != nil {
		h.fail(hc, "edit student", id, err)
		return
	}

	h.stateManager.StartEdit(hc.TelegramID, id, field)
	hc.Answer("")

	if field == state.FieldCourse {
		hc.Show("📚 Сейчас: "+string(view.Course)+"\n\nВыберите новый курс:"+cancelHint, keyboard.Courses(keyboard.EditCourse))
		return
	}
	hc.Show(editPrompt(field, view)+cancelHint, nil)
}

func (h *Handler) handleEditCourse(hc *HandlerContext, arg string) {
	id, field, ok := h.stateManager.EditTarget(hc.TelegramID)
	if !ok || field != state.FieldCourse {
		hc.AnswerAlert("Диалог устарел, откройте карточку ученика заново")
		return
	}

	courses := model.Courses()
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(courses) {
		hc.AnswerAlert(formatting.ErrorMessage(service.ErrInvalidCourse))
		return
	}
	course := courses[idx]

	h.stateManager.ClearState(hc.TelegramID)
	if err := h.tracker.UpdateStudent(hc.Ctx, id, model.StudentPatch{Course: &course}); err != nil {
		h.fail(hc, "edit course", id, err)
		return
	}

	h.logger.Info("Student edited", zap.String("student_id", id), zap.String("field", string(field)))
	hc.Answer("📚 " + string(course))
	h.showCard(hc, id, "✅ Сохранено")
}

func editPrompt(field state.EditField, v service.StudentView) string {
	sub := v.Subscription
	switch field {
	case state.FieldName:
		return "👤 Сейчас: " + v.FullName + "\n\nВведите новое ФИО:"
	case state.FieldAge:
		return "🎂 Сейчас: " + strconv.Itoa(v.Age) + "\n\nВведите возраст:"
	case state.FieldPhone:
		return "📞 Сейчас: " + orDash(v.ParentPhone) + "\n\nВведите телефон родителя или «-» чтобы очистить:"
	case state.FieldNotes:
		return "📝 Сейчас: " + orDash(v.Notes) + "\n\nВведите заметки или «-» чтобы очистить:"
	case state.FieldStart:
		return "📅 Начало абонемента: " + formatting.FormatDate(sub.StartDate) + "\n\nВведите новую дату (ГГГГ-ММ-ДД или ДД.ММ.ГГГГ):"
	case state.FieldEnd:
		return "📅 Окончание абонемента: " + formatting.FormatDate(sub.EndDate) + "\n\nВведите новую дату (ГГГГ-ММ-ДД или ДД.ММ.ГГГГ):"
	case state.FieldTotal:
		return "🎫 Всего занятий: " + strconv.Itoa(sub.TotalClasses) + "\n\nВведите новое число:"
	case state.FieldUsed:
		return "✏️ Использовано занятий: " + strconv.Itoa(sub.UsedClasses) + "\n\nВведите новое число:"
	default:
		return "Введите новое значение:"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
