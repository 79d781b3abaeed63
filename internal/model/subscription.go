package model

import "time"

// DateLayout формат календарной даты без времени
const DateLayout = "2006-01-02"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"    // Активен
	SubscriptionStatusExpiring  SubscriptionStatus = "expiring"  // Заканчивается
	SubscriptionStatusExpired   SubscriptionStatus = "expired"   // Просрочен по дате
	SubscriptionStatusExhausted SubscriptionStatus = "exhausted" // Закончились занятия
)

// Subscription абонемент ученика. Своего ID нет, живёт внутри Student
type Subscription struct {
	StartDate    string `json:"startDate"` // YYYY-MM-DD
	EndDate      string `json:"endDate"`   // YYYY-MM-DD
	TotalClasses int    `json:"totalClasses"`
	UsedClasses  int    `json:"usedClasses"`
}

// SubscriptionPatch частичное обновление абонемента, nil = поле не меняется
type SubscriptionPatch struct {
	StartDate    *string
	EndDate      *string
	TotalClasses *int
	UsedClasses  *int
}

// Apply возвращает копию абонемента с применёнными изменениями
func (p SubscriptionPatch) Apply(sub Subscription) Subscription {
	if p.StartDate != nil {
		sub.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		sub.EndDate = *p.EndDate
	}
	if p.TotalClasses != nil {
		sub.TotalClasses = *p.TotalClasses
	}
	if p.UsedClasses != nil {
		sub.UsedClasses = *p.UsedClasses
	}
	return sub
}

// ParseDate разбирает календарную дату в указанной локации
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// FormatDate форматирует время как календарную дату
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
