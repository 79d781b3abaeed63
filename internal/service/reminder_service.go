package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/subscription"
	"go.uber.org/zap"
)

// ReminderService выбирает учеников, которым пора продлить абонемент
type ReminderService struct {
	tracker *TrackerService
	logger  *zap.Logger
}

func NewReminderService(tracker *TrackerService, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		tracker: tracker,
		logger:  logger,
	}
}

// Due возвращает учеников с абонементом в статусе expiring, exhausted или expired.
// Порядок: по статусу, внутри статуса по дате окончания
func (s *ReminderService) Due() []StudentView {
	due := []StudentView{}
	for _, v := range s.tracker.Views() {
		if subscription.NeedsRenewal(v.Status) {
			due = append(due, v)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		ri, rj := subscription.Rank(due[i].Status), subscription.Rank(due[j].Status)
		if ri != rj {
			return ri < rj
		}
		return due[i].Subscription.EndDate < due[j].Subscription.EndDate
	})

	s.logger.Debug("Reminders collected", zap.Int("count", len(due)))
	return due
}

// StatusCounts число учеников в каждом из четырёх статусов
func (s *ReminderService) StatusCounts() map[model.SubscriptionStatus]int {
	counts := map[model.SubscriptionStatus]int{
		model.SubscriptionStatusActive:    0,
		model.SubscriptionStatusExpiring:  0,
		model.SubscriptionStatusExpired:   0,
		model.SubscriptionStatusExhausted: 0,
	}
	for _, v := range s.tracker.Views() {
		counts[v.Status]++
	}
	return counts
}

// FormatReminder строка напоминания об одном ученике
func FormatReminder(v StudentView) string {
	switch v.Status {
	case model.SubscriptionStatusExhausted:
		return fmt.Sprintf("🔴 %s (%s): занятия закончились", v.FullName, v.Course)
	case model.SubscriptionStatusExpired:
		return fmt.Sprintf("🔴 %s (%s): абонемент истёк %s, осталось занятий: %d",
			v.FullName, v.Course, v.Subscription.EndDate, v.ClassesLeft)
	default:
		return fmt.Sprintf("🟡 %s (%s): осталось занятий %d, дней %d (до %s)",
			v.FullName, v.Course, v.ClassesLeft, v.DaysLeft, v.Subscription.EndDate)
	}
}

// FormatReminders сообщение со списком напоминаний. Пустая строка если напоминать некому
func FormatReminders(due []StudentView) string {
	if len(due) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("🔔 Пора продлить абонементы:\n\n")
	for _, v := range due {
		b.WriteString(FormatReminder(v))
		b.WriteString("\n")
		if v.ParentPhone != "" {
			b.WriteString("   📞 ")
			b.WriteString(v.ParentPhone)
			b.WriteString("\n")
		}
	}
	return b.String()
}
