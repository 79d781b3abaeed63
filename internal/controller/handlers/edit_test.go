package handlers

import (
	"context"
	"testing"

	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdit(t *testing.T) {
	f := newFixture(t)
	st := f.addStudent(t)
	ctx := context.Background()

	tests := []struct {
		field state.EditField
		input string
		check func(t *testing.T, v service.StudentView)
	}{
		{state.FieldName, "  Петров Иван ", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, "Петров Иван", v.FullName)
		}},
		{state.FieldAge, "12", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, 12, v.Age)
		}},
		{state.FieldPhone, "-", func(t *testing.T, v service.StudentView) {
			assert.Empty(t, v.ParentPhone)
		}},
		{state.FieldNotes, "пропустил март", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, "пропустил март", v.Notes)
		}},
		{state.FieldStart, "02.03.2026", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, "2026-03-02", v.Subscription.StartDate)
		}},
		{state.FieldEnd, "2026-04-15", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, "2026-04-15", v.Subscription.EndDate)
		}},
		{state.FieldTotal, "12", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, 12, v.Subscription.TotalClasses)
		}},
		{state.FieldUsed, "12", func(t *testing.T, v service.StudentView) {
			assert.Equal(t, 12, v.Subscription.UsedClasses)
			assert.Equal(t, model.SubscriptionStatusExhausted, v.Status)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			require.NoError(t, ApplyEdit(ctx, f.tracker, st.ID, tt.field, tt.input))
			v, err := f.tracker.Student(st.ID)
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestApplyEditRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	st := f.addStudent(t)
	ctx := context.Background()

	tests := []struct {
		field state.EditField
		input string
	}{
		{state.FieldName, "   "},
		{state.FieldAge, "сто"},
		{state.FieldStart, "2026-04-01"}, // позже окончания
		{state.FieldEnd, "2026-02-01"},   // раньше начала
		{state.FieldEnd, "31/03/2026"},
		{state.FieldTotal, "0"},
		{state.FieldUsed, "-1"},
		{state.FieldCourse, "Дизайн"},
	}
	for _, tt := range tests {
		err := ApplyEdit(ctx, f.tracker, st.ID, tt.field, tt.input)
		require.Error(t, err, "%s=%q", tt.field, tt.input)
		assert.True(t, isInputError(err), "%s=%q: %v", tt.field, tt.input, err)
	}

	v, err := f.tracker.Student(st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Subscription, v.Subscription)
	assert.Equal(t, st.FullName, v.FullName)

	err = ApplyEdit(ctx, f.tracker, "missing", state.FieldName, "Имя")
	assert.ErrorIs(t, err, service.ErrStudentNotFound)
}

func TestEditDialogKeepsStateOnBadInput(t *testing.T) {
	f := newFixture(t)
	st := f.addStudent(t)
	f.states.StartEdit(testUser, st.ID, state.FieldEnd)

	f.send(f.h.HandleTextMessage, "завтра")
	assert.Equal(t, editHints[state.FieldEnd], f.api.last(t).Text)
	assert.Equal(t, state.StateEditField, f.states.GetState(testUser))

	f.send(f.h.HandleTextMessage, "30.04.2026")
	msg := f.api.last(t)
	assert.Equal(t, "sendMessage", msg.Method)
	assert.Contains(t, msg.Text, "✅ Сохранено")
	assert.Contains(t, msg.Text, "30.04.2026")
	assert.Contains(t, msg.Markup, "edit:"+st.ID)
	assert.Equal(t, state.StateNone, f.states.GetState(testUser))

	v, err := f.tracker.Student(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-30", v.Subscription.EndDate)
}

func TestEditDialogStudentRemoved(t *testing.T) {
	f := newFixture(t)
	st := f.addStudent(t)
	f.states.StartEdit(testUser, st.ID, state.FieldName)
	require.NoError(t, f.tracker.DeleteStudent(context.Background(), st.ID))

	f.send(f.h.HandleTextMessage, "Новое Имя")
	assert.Equal(t, "❌ Ученик не найден", f.api.last(t).Text)
	assert.Equal(t, state.StateNone, f.states.GetState(testUser))
}

func TestCancelStopsEdit(t *testing.T) {
	f := newFixture(t)
	st := f.addStudent(t)
	f.states.StartEdit(testUser, st.ID, state.FieldNotes)

	f.send(f.h.HandleCancel, "/cancel")
	assert.Equal(t, state.StateNone, f.states.GetState(testUser))

	f.send(f.h.HandleTextMessage, "-")
	v, err := f.tracker.Student(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "любит роботов", v.Notes)
}
