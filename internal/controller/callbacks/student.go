package callbacks

import (
	"strconv"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/report"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"go.uber.org/zap"
)

// showCard показывает карточку ученика. notice выводится над карточкой
func (h *Handler) showCard(hc *HandlerContext, id, notice string) {
	view, err := h.tracker.Student(id)
	if err != nil {
		hc.Show(formatting.ErrorMessage(err), nil)
		return
	}

	text := formatting.FormatStudentCard(view, h.tracker.AttendanceStats(id))
	if notice != "" {
		text = notice + "\n\n" + text
	}
	hc.Show(text, keyboard.StudentCard(id))
}

func (h *Handler) handleView(hc *HandlerContext, id string) {
	hc.Answer("")
	h.showCard(hc, id, "")
}

func (h *Handler) handleUseClass(hc *HandlerContext, id string) {
	before, err := h.tracker.Student(id)
	if err != nil {
		h.fail(hc, "use class", id, err)
		return
	}
	if before.ClassesLeft <= 0 {
		hc.AnswerAlert("⚫️ Занятия закончились, продлите абонемент")
		return
	}

	if err := h.tracker.UseClass(hc.Ctx, id); err != nil {
		h.fail(hc, "use class", id, err)
		return
	}
	hc.Answer("✏️ Занятие списано")
	h.showCard(hc, id, "")
}

func (h *Handler) handleRenew(hc *HandlerContext, id string) {
	if err := h.tracker.RenewSubscription(hc.Ctx, id); err != nil {
		h.fail(hc, "renew subscription", id, err)
		return
	}
	hc.Answer("🔄 Абонемент продлён")
	h.showCard(hc, id, "🔄 Абонемент продлён на 30 дней, 8 занятий")
}

func (h *Handler) handleCalendar(hc *HandlerContext, id string) {
	view, err := h.tracker.Student(id)
	if err != nil {
		h.fail(hc, "calendar", id, err)
		return
	}

	now := h.tracker.Now()
	image, err := report.CalendarImage(now, now, h.tracker.StudentHistory(id))
	if err != nil {
		h.fail(hc, "calendar", id, err)
		return
	}

	stats := h.tracker.AttendanceStats(id)
	caption := "🗓 " + view.FullName + "\n✅ " + strconv.Itoa(stats.Present) + "  ❌ " + strconv.Itoa(stats.Absent)
	if err := hc.SendPhoto("calendar.png", image, caption); err != nil {
		h.fail(hc, "send calendar", id, err)
		return
	}
	hc.Answer("")
}

func (h *Handler) handleDelete(hc *HandlerContext, id string) {
	view, err := h.tracker.Student(id)
	if err != nil {
		h.fail(hc, "delete student", id, err)
		return
	}
	hc.Answer("")
	hc.Show("🗑 Удалить ученика "+view.FullName+" вместе со всеми отметками посещений?", keyboard.ConfirmDeletion(id))
}

func (h *Handler) handleConfirmDelete(hc *HandlerContext, id string) {
	if err := h.tracker.DeleteStudent(hc.Ctx, id); err != nil {
		h.fail(hc, "delete student", id, err)
		return
	}
	hc.Answer("🗑 Удалено")
	hc.Show("🗑 Ученик удалён.\n\nСписок учеников: /students", nil)
}

func (h *Handler) handleSubscriptions(hc *HandlerContext, status string) {
	views := h.tracker.Subscriptions(model.SubscriptionStatus(status))

	title := "🎫 Абонементы"
	if status != "" {
		display := formatting.GetStatusDisplay(model.SubscriptionStatus(status))
		title += ": " + display.Emoji + " " + display.Text
	}

	hc.Answer("")
	text := formatting.FormatStudentList(title, views)
	if len(views) == 0 {
		hc.Show(text, keyboard.SubscriptionFilters())
		return
	}
	hc.Show(text, keyboard.StudentList(views))
}

// handleAddCourse выбор курса в диалоге /add
func (h *Handler) handleAddCourse(hc *HandlerContext, arg string) {
	if h.stateManager.GetState(hc.TelegramID) != state.StateAddCourse {
		hc.AnswerAlert("Диалог устарел, начните заново: /add")
		return
	}

	courses := model.Courses()
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(courses) {
		hc.AnswerAlert(formatting.ErrorMessage(service.ErrInvalidCourse))
		return
	}
	course := courses[idx]

	h.stateManager.Advance(hc.TelegramID, state.StateAddClasses, func(d *service.NewStudent) {
		d.Course = course
	})

	hc.Answer(string(course))
	hc.Show("📚 Курс: "+string(course)+"\n\nШаг 5/7. Сколько занятий в абонементе? Введите число, "+
		"например 8, или «всего/использовано», например 8/3. «-» означает "+
		strconv.Itoa(service.DefaultTotalClasses)+":", nil)
}

func (h *Handler) fail(hc *HandlerContext, op, id string, err error) {
	h.logger.Warn("Callback action failed",
		zap.String("op", op),
		zap.String("student_id", id),
		zap.Error(err),
	)
	hc.AnswerAlert(formatting.ErrorMessage(err))
}
