package formatting

import "github.com/Freeeeeet/attendance_bot/internal/model"

// StatusDisplay представляет отображение статуса абонемента
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для статуса абонемента
func GetStatusDisplay(status model.SubscriptionStatus) StatusDisplay {
	displays := map[model.SubscriptionStatus]StatusDisplay{
		model.SubscriptionStatusActive:    {"🟢", "Активен"},
		model.SubscriptionStatusExpiring:  {"🟡", "Заканчивается"},
		model.SubscriptionStatusExpired:   {"🔴", "Просрочен"},
		model.SubscriptionStatusExhausted: {"⚫️", "Исчерпан"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}
