package formatting

import (
	"errors"

	"github.com/Freeeeeet/attendance_bot/internal/service"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return "❌ Ученик не найден"
	case errors.Is(err, service.ErrEmptyName):
		return "❌ Имя не может быть пустым"
	case errors.Is(err, service.ErrInvalidCourse):
		return "❌ Неизвестный курс"
	case errors.Is(err, service.ErrInvalidDate):
		return "❌ Неверная дата, нужен формат ГГГГ-ММ-ДД"
	case errors.Is(err, service.ErrInvalidClasses):
		return "❌ Неверное количество занятий"
	case errors.Is(err, service.ErrRecordNotFound):
		return "❌ Отметки за этот день нет"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
