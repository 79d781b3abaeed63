package callbacks

import (
	"context"

	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	tracker      *service.TrackerService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(tracker *service.TrackerService, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		tracker:      tracker,
		stateManager: stateManager,
		logger:       logger,
	}
}

// HandleCallbackQuery точка входа для всех callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.Route(NewHandlerContext(ctx, b, update.CallbackQuery, h.logger))
}
