package keyboard

import (
	"strconv"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/controller/formatting"
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

// MaxListButtons ограничение на число учеников-кнопок под одним сообщением
const MaxListButtons = 40

// StudentCard действия с карточкой ученика
func StudentCard(id string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("✅ Пришёл сегодня", MarkPresent+id),
			Button("❌ Не пришёл", MarkAbsent+id),
		).
		Row(
			Button("🧹 Снять отметку", Unmark+id),
			Button("➖ Списать занятие", UseClass+id),
		).
		Row(
			Button("🔄 Продлить", Renew+id),
			Button("🗓 Календарь", Calendar+id),
		).
		Row(
			Button("✏️ Изменить", Edit+id),
			Button("🗑 Удалить", DeleteStudent+id),
		).
		Build()
}

// ConfirmDeletion подтверждение удаления ученика
func ConfirmDeletion(id string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("🗑 Да, удалить", ConfirmDelete+id),
			Button("↩️ Отмена", ViewStudent+id),
		).
		Build()
}

var editFieldLabels = map[state.EditField]string{
	state.FieldName:   "👤 Имя",
	state.FieldAge:    "🎂 Возраст",
	state.FieldPhone:  "📞 Телефон",
	state.FieldCourse: "📚 Курс",
	state.FieldNotes:  "📝 Заметки",
	state.FieldStart:  "📅 Начало",
	state.FieldEnd:    "📅 Окончание",
	state.FieldTotal:  "🎫 Всего занятий",
	state.FieldUsed:   "✏️ Использовано",
}

// EditMenu выбор поля для редактирования, по два в ряд
func EditMenu(id string) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	fields := state.EditFields()
	for i := 0; i < len(fields); i += 2 {
		row := []models.InlineKeyboardButton{
			Button(editFieldLabels[fields[i]], EditField+string(fields[i])+":"+id),
		}
		if i+1 < len(fields) {
			row = append(row, Button(editFieldLabels[fields[i+1]], EditField+string(fields[i+1])+":"+id))
		}
		b.Row(row...)
	}
	return b.Row(Button("↩️ Назад", ViewStudent+id)).Build()
}

// Courses выбор курса. prefix задаёт диалог: AddCourse или EditCourse
func Courses(prefix string) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for i, course := range model.Courses() {
		b.Row(Button(string(course), prefix+strconv.Itoa(i)))
	}
	return b.Build()
}

// StudentList кнопка на каждого ученика, открывающая карточку
func StudentList(views []service.StudentView) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for i, v := range views {
		if i == MaxListButtons {
			break
		}
		display := formatting.GetStatusDisplay(v.Status)
		b.Row(Button(display.Emoji+" "+v.FullName, ViewStudent+v.ID))
	}
	return b.Build()
}

// DaySheet отметки за день для каждого ученика и переход на соседние дни
func DaySheet(views []service.StudentView, date string) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for i, v := range views {
		if i == MaxListButtons {
			break
		}
		arg := WithDate(v.ID, date)
		b.Row(
			Button(v.FullName, ViewStudent+v.ID),
			Button("✅", MarkPresent+arg),
			Button("❌", MarkAbsent+arg),
			Button("🧹", Unmark+arg),
		)
	}

	if t, err := time.Parse(model.DateLayout, date); err == nil {
		prev := model.FormatDate(t.AddDate(0, 0, -1))
		next := model.FormatDate(t.AddDate(0, 0, 1))
		b.Row(
			Button("◀️ "+formatting.FormatDate(prev), Day+prev),
			Button(formatting.FormatDate(next)+" ▶️", Day+next),
		)
	}
	return b.Build()
}

// SubscriptionFilters фильтр списка абонементов по статусу
func SubscriptionFilters() *models.InlineKeyboardMarkup {
	statuses := []model.SubscriptionStatus{
		model.SubscriptionStatusExpiring,
		model.SubscriptionStatusExhausted,
		model.SubscriptionStatusExpired,
		model.SubscriptionStatusActive,
	}

	row := make([]models.InlineKeyboardButton, 0, len(statuses))
	for _, status := range statuses {
		display := formatting.GetStatusDisplay(status)
		row = append(row, Button(display.Emoji, Subscriptions+string(status)))
	}
	return NewBuilder().Row(row...).Row(Button("Все", Subscriptions)).Build()
}
