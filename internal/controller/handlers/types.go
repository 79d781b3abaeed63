package handlers

import (
	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	tracker      *service.TrackerService
	stateManager *state.Manager
	isAdmin      func(chatID int64) bool
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд. isAdmin решает, кому доступен бот
func NewHandlers(
	tracker *service.TrackerService,
	stateManager *state.Manager,
	isAdmin func(chatID int64) bool,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		tracker:      tracker,
		stateManager: stateManager,
		isAdmin:      isAdmin,
		logger:       logger,
	}
}
