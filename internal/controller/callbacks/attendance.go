package callbacks

import (
	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
)

// showDay показывает отметки за день
func (h *Handler) showDay(hc *HandlerContext, date string) {
	views, records, err := h.tracker.DaySheet(date)
	if err != nil {
		hc.Show(formatting.ErrorMessage(err), nil)
		return
	}
	hc.Show(formatting.FormatDaySheet(date, h.tracker.Today(), views, records), keyboard.DaySheet(views, date))
}

func (h *Handler) handleDay(hc *HandlerContext, date string) {
	hc.Answer("")
	h.showDay(hc, date)
}

func (h *Handler) handleMarkPresent(hc *HandlerContext, arg string) {
	h.mark(hc, arg, true)
}

func (h *Handler) handleMarkAbsent(hc *HandlerContext, arg string) {
	h.mark(hc, arg, false)
}

// mark ставит отметку. Без даты отметка за сегодня из карточки, с датой из списка дня
func (h *Handler) mark(hc *HandlerContext, arg string, present bool) {
	id, date := keyboard.SplitDate(arg)
	if err := h.tracker.MarkAttendance(hc.Ctx, id, date, present, ""); err != nil {
		h.fail(hc, "mark attendance", id, err)
		return
	}

	if present {
		hc.Answer("✅ Отмечен как пришедший")
	} else {
		hc.Answer("❌ Отмечен как отсутствующий")
	}
	h.refresh(hc, id, date)
}

func (h *Handler) handleUnmark(hc *HandlerContext, arg string) {
	id, date := keyboard.SplitDate(arg)
	if err := h.tracker.UnmarkAttendance(hc.Ctx, id, date); err != nil {
		h.fail(hc, "unmark attendance", id, err)
		return
	}

	hc.Answer("🧹 Отметка снята")
	h.refresh(hc, id, date)
}

func (h *Handler) refresh(hc *HandlerContext, id, date string) {
	if date == "" {
		h.showCard(hc, id, "")
		return
	}
	h.showDay(hc, date)
}
