package callbacks

import (
	"bytes"
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errNoMessage = errors.New("no message in callback")

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Message    *models.Message
	TelegramID int64
	ChatID     int64
	logger     *zap.Logger
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, logger *zap.Logger) *HandlerContext {
	msg := callback.Message.Message
	chatID := callback.From.ID
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
		logger:     logger,
	}
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	hc.answer(text, false)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	hc.answer(text, true)
}

func (hc *HandlerContext) answer(text string, alert bool) {
	_, err := hc.Bot.AnswerCallbackQuery(hc.Ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: hc.Callback.ID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		hc.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

// EditMessage редактирует сообщение с кнопкой
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return errNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)
	return err
}

// SendMessage отправляет новое сообщение в чат
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: hc.ChatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := hc.Bot.SendMessage(hc.Ctx, params); err != nil {
		hc.logger.Error("Failed to send message", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
	}
}

// SendPhoto отправляет PNG-картинку с подписью
func (hc *HandlerContext) SendPhoto(filename string, data []byte, caption string) error {
	_, err := hc.Bot.SendPhoto(hc.Ctx, &bot.SendPhotoParams{
		ChatID:  hc.ChatID,
		Photo:   &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption: caption,
	})
	return err
}

// Show редактирует сообщение, а если это невозможно, отправляет новое
func (hc *HandlerContext) Show(text string, keyboard *models.InlineKeyboardMarkup) {
	if err := hc.EditMessage(text, keyboard); err != nil {
		hc.logger.Debug("Edit failed, sending new message", zap.Error(err))
		hc.SendMessage(text, keyboard)
	}
}
