package callbacks

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

// apiCall вызов Bot API, записанный тестовым сервером
type apiCall struct {
	Method    string
	Text      string
	Markup    string
	ShowAlert bool
}

type telegramAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (a *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)
	method := path.Base(r.URL.Path)

	a.mu.Lock()
	a.calls = append(a.calls, apiCall{
		Method:    method,
		Text:      r.FormValue("text"),
		Markup:    r.FormValue("reply_markup"),
		ShowAlert: r.FormValue("show_alert") == "true",
	})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "answerCallbackQuery" {
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":200,"type":"private"}}}`))
}

// lastOf последний вызов указанного метода
func (a *telegramAPI) lastOf(t *testing.T, method string) apiCall {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.calls) - 1; i >= 0; i-- {
		if a.calls[i].Method == method {
			return a.calls[i]
		}
	}
	require.Failf(t, "no call", "method %s was not called", method)
	return apiCall{}
}

type fixture struct {
	tracker *service.TrackerService
	states  *state.Manager
	h       *Handler
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
		h:       NewHandler(tracker, states, zap.NewNop()),
		bot:     b,
		api:     api,
	}
}

// press имитирует нажатие inline кнопки под сообщением бота
func (f *fixture) press(data string) {
	f.h.HandleCallbackQuery(context.Background(), f.bot, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: testUser},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 5, Chat: models.Chat{ID: testChat}},
		},
	}})
}

func (f *fixture) addStudent(t *testing.T) model.Student {
	t.Helper()
	st, err := f.tracker.AddStudent(context.Background(), service.NewStudent{
		FullName:     "Иванов Пётр",
		Age:          10,
		Course:       model.CourseRobotics,
		StartDate:    "2026-03-01",
		EndDate:      "2026-03-31",
		TotalClasses: 8,
	})
	require.NoError(t, err)
	return st
}
