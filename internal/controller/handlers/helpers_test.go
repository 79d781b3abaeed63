package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/controller/state"
	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/Freeeeeet/attendance_bot/internal/repository"
	"github.com/Freeeeeet/attendance_bot/internal/service"
	"github.com/Freeeeeet/attendance_bot/internal/storage"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

const (
	testUser int64 = 100
	testChat int64 = 200
)

// sentMessage вызов Bot API, записанный тестовым сервером
type sentMessage struct {
	Method string
	Text   string
	Markup string
}

// telegramAPI отвечает на вызовы Bot API и запоминает отправленные сообщения
type telegramAPI struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (a *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)
	method := path.Base(r.URL.Path)

	a.mu.Lock()
	a.sent = append(a.sent, sentMessage{
		Method: method,
		Text:   r.FormValue("text"),
		Markup: r.FormValue("reply_markup"),
	})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "answerCallbackQuery" {
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":200,"type":"private"}}}`))
}

func (a *telegramAPI) last(t *testing.T) sentMessage {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.sent, "nothing was sent")
	return a.sent[len(a.sent)-1]
}

type fixture struct {
	tracker *service.TrackerService
	states  *state.Manager
	h       *Handlers
	bot     *bot.Bot
	api     *telegramAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := storage.NewRecordStore(storage.NewMemoryBackend(), zap.NewNop())
	clock := func() time.Time { return fixedNow }

	attendance := repository.NewAttendanceRepository(ctx, store, zap.NewNop(), repository.WithClock(clock))
	students := repository.NewStudentRepository(ctx, store, attendance, zap.NewNop(), repository.WithClock(clock))
	tracker := service.NewTrackerService(students, attendance, zap.NewNop(),
		service.WithClock(clock), service.WithLocation(time.UTC))

	api := &telegramAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	states := state.NewManager()
	return &fixture{
		tracker: tracker,
		states:  states,
		h:       NewHandlers(tracker, states, func(int64) bool { return true }, zap.NewNop()),
		bot:     b,
		api:     api,
	}
}

// send передаёт текст пользователя в обработчик
func (f *fixture) send(handler bot.HandlerFunc, text string) {
	handler(context.Background(), f.bot, &models.Update{Message: &models.Message{
		Text: text,
		From: &models.User{ID: testUser},
		Chat: models.Chat{ID: testChat},
	}})
}

func (f *fixture) addStudent(t *testing.T) model.Student {
	t.Helper()
	st, err := f.tracker.AddStudent(context.Background(), service.NewStudent{
		FullName:     "Иванов Пётр",
		Age:          10,
		ParentPhone:  "+7 900",
		Course:       model.CourseRobotics,
		StartDate:    "2026-03-01",
		EndDate:      "2026-03-31",
		TotalClasses: 8,
		Notes:        "любит роботов",
	})
	require.NoError(t, err)
	return st
}
