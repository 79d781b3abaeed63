package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
)

// FormatDate переводит YYYY-MM-DD в ДД.ММ.ГГГГ, неразбираемую дату возвращает как есть
func FormatDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}

// FormatStudentLine одна строка списка учеников
func FormatStudentLine(v service.StudentView) string {
	display := GetStatusDisplay(v.Status)
	return fmt.Sprintf("%s %s (%s): %d %s, %d %s",
		display.Emoji,
		v.FullName,
		v.Course,
		v.ClassesLeft, PluralizeClasses(v.ClassesLeft),
		v.DaysLeft, PluralizeDays(v.DaysLeft),
	)
}

// FormatStudentList список учеников с заголовком
func FormatStudentList(title string, views []service.StudentView) string {
	if len(views) == 0 {
		return title + "\n\nНикого не найдено."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d %s)\n\n", title, len(views), PluralizeStudents(len(views)))
	for _, v := range views {
		b.WriteString(FormatStudentLine(v))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStudentCard карточка ученика с абонементом и посещаемостью
func FormatStudentCard(v service.StudentView, stats model.AttendanceStats) string {
	display := GetStatusDisplay(v.Status)
	sub := v.Subscription

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", v.FullName)
	fmt.Fprintf(&b, "🎂 Возраст: %d\n", v.Age)
	fmt.Fprintf(&b, "📚 Курс: %s\n", v.Course)
	if v.ParentPhone != "" {
		fmt.Fprintf(&b, "📞 Телефон родителя: %s\n", v.ParentPhone)
	}

	b.WriteString("\n🎫 Абонемент\n")
	fmt.Fprintf(&b, "%s Статус: %s\n", display.Emoji, display.Text)
	fmt.Fprintf(&b, "📅 %s – %s\n", FormatDate(sub.StartDate), FormatDate(sub.EndDate))
	fmt.Fprintf(&b, "✏️ Использовано: %d из %d\n", sub.UsedClasses, sub.TotalClasses)
	fmt.Fprintf(&b, "⏳ Осталось: %d %s, %d %s\n",
		v.ClassesLeft, PluralizeClasses(v.ClassesLeft),
		v.DaysLeft, PluralizeDays(v.DaysLeft),
	)

	b.WriteString("\n📊 Посещаемость\n")
	if stats.Total == 0 {
		b.WriteString("Отметок пока нет\n")
	} else {
		fmt.Fprintf(&b, "✅ %d  ❌ %d  (%d%%)\n", stats.Present, stats.Absent, stats.Percentage)
	}

	if v.Notes != "" {
		fmt.Fprintf(&b, "\n📝 %s\n", v.Notes)
	}
	return b.String()
}

// FormatDashboard главный экран со сводкой
func FormatDashboard(d service.Dashboard, today string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Сводка на %s\n\n", FormatDate(today))
	fmt.Fprintf(&b, "👥 Всего: %d %s\n", d.Stats.Total, PluralizeStudents(d.Stats.Total))
	fmt.Fprintf(&b, "🟢 Активных: %d\n", d.Stats.Active)
	fmt.Fprintf(&b, "🟡 Заканчиваются: %d\n", d.Stats.Expiring)
	fmt.Fprintf(&b, "🔴 Просрочены или исчерпаны: %d\n", d.Stats.Expired)
	fmt.Fprintf(&b, "✅ Сегодня пришли: %d\n", d.PresentToday)

	if len(d.Expiring) > 0 {
		b.WriteString("\n⚠️ Скоро заканчиваются:\n")
		for _, v := range d.Expiring {
			fmt.Fprintf(&b, "• %s, до %s\n", v.FullName, FormatDate(v.Subscription.EndDate))
		}
	}
	return b.String()
}

// FormatDayRecord отметка ученика за день для списка /today
func FormatDayRecord(v service.StudentView, record *model.AttendanceRecord) string {
	mark := "▫️"
	if record != nil {
		mark = "❌"
		if record.Present {
			mark = "✅"
		}
	}
	return fmt.Sprintf("%s %s (%s)", mark, v.FullName, v.Course)
}

// FormatDaySheet список отметок за день
func FormatDaySheet(date, today string, views []service.StudentView, records []model.AttendanceRecord) string {
	byStudent := make(map[string]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 Посещения за %s", FormatDate(date))
	if date == today {
		b.WriteString(" (сегодня)")
	}
	b.WriteString("\n\n")

	if len(views) == 0 {
		b.WriteString("Нет учеников с действующим абонементом.\n")
	}
	for _, v := range views {
		var record *model.AttendanceRecord
		if rec, ok := byStudent[v.ID]; ok {
			record = &rec
		}
		b.WriteString(FormatDayRecord(v, record))
		b.WriteString("\n")
	}

	b.WriteString("\nДругой день: /today ГГГГ-ММ-ДД")
	return b.String()
}
