package callbacks

import (
	"github.com/Freeeeeet/attendance_bot/internal/controller/keyboard"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func (h *Handler) Route(hc *HandlerContext) {
	data := hc.Callback.Data

	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", hc.TelegramID),
	)

	if data == keyboard.Noop {
		hc.Answer("")
		return
	}

	routes := []struct {
		prefix string
		handle func(hc *HandlerContext, arg string)
	}{
		{keyboard.ConfirmDelete, h.handleConfirmDelete},
		{keyboard.DeleteStudent, h.handleDelete},
		{keyboard.ViewStudent, h.handleView},
		{keyboard.MarkPresent, h.handleMarkPresent},
		{keyboard.MarkAbsent, h.handleMarkAbsent},
		{keyboard.Unmark, h.handleUnmark},
		{keyboard.Day, h.handleDay},
		{keyboard.EditField, h.handleEditField},
		{keyboard.EditCourse, h.handleEditCourse},
		{keyboard.Edit, h.handleEdit},
		{keyboard.UseClass, h.handleUseClass},
		{keyboard.Renew, h.handleRenew},
		{keyboard.Calendar, h.handleCalendar},
		{keyboard.AddCourse, h.handleAddCourse},
		{keyboard.Subscriptions, h.handleSubscriptions},
	}

	for _, route := range routes {
		if arg, ok := keyboard.Payload(data, route.prefix); ok {
			route.handle(hc, arg)
			return
		}
	}

	h.logger.Warn("Unknown callback", zap.String("data", data))
	hc.Answer("❓ Неизвестное действие")
}
