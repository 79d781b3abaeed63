package state

import (
	"sync"
	"testing"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestManagerDialogFlow(t *testing.T) {
	sm := NewManager()
	const user int64 = 42

	assert.Equal(t, StateNone, sm.GetState(user))

	sm.SetState(user, StateAddName)
	sm.Advance(user, StateAddAge, func(d *service.NewStudent) { d.FullName = "Иванов Пётр" })
	sm.Advance(user, StateAddCourse, func(d *service.NewStudent) { d.Age = 10 })
	sm.Advance(user, StateAddClasses, func(d *service.NewStudent) { d.Course = model.CourseRobotics })

	assert.Equal(t, StateAddClasses, sm.GetState(user))
	assert.Equal(t, service.NewStudent{FullName: "Иванов Пётр", Age: 10, Course: model.CourseRobotics}, sm.Draft(user))

	sm.ClearState(user)
	assert.Equal(t, StateNone, sm.GetState(user))
	assert.Equal(t, service.NewStudent{}, sm.Draft(user))
}

func TestManagerSetStateNoneDropsDraft(t *testing.T) {
	sm := NewManager()
	sm.Advance(1, StateAddAge, func(d *service.NewStudent) { d.FullName = "A" })

	sm.SetState(1, StateAddPhone)
	assert.Equal(t, "A", sm.Draft(1).FullName)

	sm.SetState(1, StateNone)
	assert.Empty(t, sm.Draft(1).FullName)
}

func TestManagerUsersAreIsolated(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.Advance(id, StateAddAge, func(d *service.NewStudent) { d.Age = int(id) })
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 20; i++ {
		assert.Equal(t, int(i), sm.Draft(i).Age)
		assert.Equal(t, StateAddAge, sm.GetState(i))
	}
}

func TestManagerEditTarget(t *testing.T) {
	sm := NewManager()
	const user int64 = 7

	_, _, ok := sm.EditTarget(user)
	assert.False(t, ok)

	sm.Advance(user, StateAddAge, func(d *service.NewStudent) { d.FullName = "Черновик" })
	sm.StartEdit(user, "student-1", FieldEnd)

	id, field, ok := sm.EditTarget(user)
	assert.True(t, ok)
	assert.Equal(t, "student-1", id)
	assert.Equal(t, FieldEnd, field)
	assert.Equal(t, StateEditField, sm.GetState(user))
	assert.Empty(t, sm.Draft(user).FullName)

	sm.SetState(user, StateAddName)
	_, _, ok = sm.EditTarget(user)
	assert.False(t, ok)
}

func TestEditFieldValid(t *testing.T) {
	for _, f := range EditFields() {
		assert.True(t, f.Valid(), f)
	}
	assert.False(t, EditField("id").Valid())
}
