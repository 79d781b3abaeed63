// Package subscription вычисляет статус абонемента и производные метрики.
// Все функции чистые: текущее время передаётся явно.
package subscription

import (
	"math"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
)

const (
	// ExpiringDays порог дней до окончания, после которого абонемент "заканчивается"
	ExpiringDays = 7
	// ExpiringClasses порог оставшихся занятий
	ExpiringClasses = 3
)

// Status определяет статус абонемента на момент now.
// Порядок проверок важен: исчерпанные занятия побеждают любую дату
func Status(sub model.Subscription, now time.Time) model.SubscriptionStatus {
	classesLeft := ClassesLeft(sub)
	if classesLeft <= 0 {
		return model.SubscriptionStatusExhausted
	}

	daysUntilEnd := DaysUntilEnd(sub, now)
	if daysUntilEnd < 0 {
		return model.SubscriptionStatusExpired
	}

	if daysUntilEnd <= ExpiringDays || classesLeft <= ExpiringClasses {
		return model.SubscriptionStatusExpiring
	}

	return model.SubscriptionStatusActive
}

// ClassesLeft количество оставшихся занятий, без ограничения снизу
func ClassesLeft(sub model.Subscription) int {
	return sub.TotalClasses - sub.UsedClasses
}

// DaysUntilEnd число дней до конца абонемента с учётом самого дня окончания:
// окончание сегодня = 1, через шесть дней = 7, вчера = -1.
// Неразбираемая дата окончания считается нулевой датой
func DaysUntilEnd(sub model.Subscription, now time.Time) int {
	end := endDate(sub, now.Location())
	days := calendarDays(now, end)
	// Округление часов вверх дало бы для вчерашней даты -0 и статус expiring, здесь это -1 и expired
	if days < 0 {
		return days
	}
	return days + 1
}

// DaysLeft дни до окончания для отображения, не меньше нуля
func DaysLeft(sub model.Subscription, now time.Time) int {
	end := endDate(sub, now.Location())
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Rank порядок сортировки в списке абонементов: сначала заканчивающиеся
func Rank(status model.SubscriptionStatus) int {
	switch status {
	case model.SubscriptionStatusExpiring:
		return 0
	case model.SubscriptionStatusExhausted:
		return 1
	case model.SubscriptionStatusExpired:
		return 2
	case model.SubscriptionStatusActive:
		return 3
	default:
		return 4
	}
}

// NeedsRenewal true для статусов, по которым нужно напоминание о продлении
func NeedsRenewal(status model.SubscriptionStatus) bool {
	return status != model.SubscriptionStatusActive
}

func endDate(sub model.Subscription, loc *time.Location) time.Time {
	end, err := model.ParseDate(sub.EndDate, loc)
	if err != nil {
		return time.Time{}
	}
	return end
}

// calendarDays разница в календарных днях, не зависит от перехода на летнее время
func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
