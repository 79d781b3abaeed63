package state

import (
	"sync"

	"github.com/Freeeeeet/attendance_bot/internal/service"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, черновик сохраняется
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	if userData, exists := sm.states[telegramID]; exists {
		userData.State = state
		return
	}
	sm.states[telegramID] = &UserData{State: state}
}

// Draft возвращает копию черновика ученика
func (sm *Manager) Draft(telegramID int64) service.NewStudent {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.Draft
	}
	return service.NewStudent{}
}

// Advance меняет черновик и переводит диалог в следующее состояние одной операцией
func (sm *Manager) Advance(telegramID int64, next UserState, update func(*service.NewStudent)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{}
		sm.states[telegramID] = userData
	}
	if update != nil {
		update(&userData.Draft)
	}
	userData.State = next
}

// StartEdit начинает редактирование поля ученика, прежний диалог сбрасывается
func (sm *Manager) StartEdit(telegramID int64, studentID string, field EditField) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State:     StateEditField,
		StudentID: studentID,
		Field:     field,
	}
}

// EditTarget возвращает ученика и поле текущего редактирования
func (sm *Manager) EditTarget(telegramID int64) (string, EditField, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists || userData.State != StateEditField {
		return "", "", false
	}
	return userData.StudentID, userData.Field, true
}

// ClearState очищает состояние и черновик пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
