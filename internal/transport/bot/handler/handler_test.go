package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/transport/bot/handler"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const (
	operatorsChat = int64(-1001)
	otherChat     = int64(42)
	testToken     = "123456:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

type stubLister struct {
	deals []entity.Deal
	err   error
	calls atomic.Int32
}

func (s *stubLister) ListDeals(_ context.Context, status entity.DealStatus) ([]entity.Deal, error) {
	s.calls.Add(1)

	if s.err != nil {
		return nil, s.err
	}

	if status == entity.StatusAll {
		return s.deals, nil
	}

	var out []entity.Deal

	for _, d := range s.deals {
		if d.Status == status {
			out = append(out, d)
		}
	}

	return out, nil
}

type apiCall struct {
	method string
	body   map[string]any
}

// telegramAPI records Bot API calls and answers them like Telegram would.
type telegramAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (a *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)

	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a.mu.Lock()
	a.calls = append(a.calls, apiCall{method: method, body: body})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch method {
	case "answerCallbackQuery":
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	default:
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":%d,"type":"group"}}}`, operatorsChat)
	}
}

func (a *telegramAPI) list() []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.calls)
}

func (a *telegramAPI) methods() []string {
	var out []string

	for _, c := range a.list() {
		out = append(out, c.method)
	}

	return out
}

func (a *telegramAPI) find(method string) (apiCall, bool) {
	for _, c := range a.list() {
		if c.method == method {
			return c, true
		}
	}

	return apiCall{}, false
}

func runBot(t *testing.T, api handler.DealsLister, updates ...telego.Update) *telegramAPI {
	t.Helper()

	tg := &telegramAPI{}

	srv := httptest.NewServer(tg)
	t.Cleanup(srv.Close)

	bot, err := telego.NewBot(
		testToken,
		telego.WithAPIServer(srv.URL),
		telego.WithHTTPClient(srv.Client()),
		telego.WithDiscardLogger(),
	)
	require.NoError(t, err)

	ch := make(chan telego.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}

	bh, err := th.NewBotHandler(bot, ch)
	require.NoError(t, err)

	handler.New(api).RegisterRoutes(bh, operatorsChat)

	go func() { _ = bh.Start() }()

	t.Cleanup(func() { _ = bh.Stop() })

	return tg
}

func command(chatID int64, text string) telego.Update {
	return telego.Update{
		UpdateID: 1,
		Message: &telego.Message{
			MessageID: 10,
			Chat:      telego.Chat{ID: chatID, Type: "group"},
			Text:      text,
		},
	}
}

func callback(chatID int64, data string) telego.Update {
	return telego.Update{
		UpdateID: 2,
		CallbackQuery: &telego.CallbackQuery{
			ID:   "cb-1",
			Data: data,
			Message: &telego.Message{
				MessageID: 10,
				Chat:      telego.Chat{ID: chatID, Type: "group"},
			},
		},
	}
}

func pending(n int) []entity.Deal {
	deals := make([]entity.Deal, 0, n+1)

	for i := range n {
		deals = append(deals, entity.Deal{
			ID:          entity.DealID(fmt.Sprintf("d-%d", i+1)),
			Status:      entity.StatusPendingValidation,
			Title:       fmt.Sprintf("Deal %d", i+1),
			OpPrice:     decimal.NewFromInt(1000),
			AskingPrice: decimal.NewFromInt(800),
			Currency:    "EUR",
		})
	}

	return append(deals, entity.Deal{ID: "d-pub", Status: entity.StatusPublished, Title: "Published"})
}

func waitFor(t *testing.T, tg *telegramAPI, method string) apiCall {
	t.Helper()

	require.Eventually(t, func() bool {
		_, ok := tg.find(method)

		return ok
	}, 2*time.Second, 10*time.Millisecond)

	call, _ := tg.find(method)

	return call
}

func TestCommands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		text         string
		listErr      error
		wantText     []string
		wantKeyboard bool
	}{
		{
			name:         "Pending first page",
			text:         "/pending",
			wantText:     []string{"Awaiting validation</b>: 7 (page 1/2)", "1. <b>Deal 1</b>"},
			wantKeyboard: true,
		},
		{
			name:     "Pending fetch failure",
			text:     "/pending",
			listErr:  errors.New("backend down"),
			wantText: []string{"Failed to fetch deals"},
		},
		{
			name:     "Stats",
			text:     "/stats",
			wantText: []string{"<b>Deals</b>: 8"},
		},
		{
			name:     "Stats fetch failure",
			text:     "/stats",
			listErr:  errors.New("backend down"),
			wantText: []string{"Failed to fetch deals"},
		},
		{
			name:     "Start",
			text:     "/start",
			wantText: []string{"/pending", "/stats"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rq := require.New(t)

			api := &stubLister{deals: pending(7), err: tc.listErr}
			tg := runBot(t, api, command(operatorsChat, tc.text))

			call := waitFor(t, tg, "sendMessage")

			rq.InDelta(float64(operatorsChat), call.body["chat_id"], 0)
			rq.Equal("HTML", call.body["parse_mode"])

			text, _ := call.body["text"].(string)
			for _, want := range tc.wantText {
				rq.Contains(text, want)
			}

			_, hasKeyboard := call.body["reply_markup"]
			rq.Equal(tc.wantKeyboard, hasKeyboard)
		})
	}
}

func TestPendingCallback(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	api := &stubLister{deals: pending(7)}
	tg := runBot(t, api, callback(operatorsChat, "pending_page:2"))

	answer := waitFor(t, tg, "answerCallbackQuery")
	rq.Equal("cb-1", answer.body["callback_query_id"])
	rq.NotContains(answer.body, "show_alert")

	edit, ok := tg.find("editMessageText")
	rq.True(ok)
	rq.InDelta(10, edit.body["message_id"], 0)

	text, _ := edit.body["text"].(string)
	rq.Contains(text, "(page 2/2)")
	rq.Contains(text, "6. <b>Deal 6</b>")
	rq.Equal([]string{"editMessageText", "answerCallbackQuery"}, tg.methods())
}

func TestPendingCallback_FetchFailure(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	api := &stubLister{err: errors.New("backend down")}
	tg := runBot(t, api, callback(operatorsChat, "pending_page:2"))

	answer := waitFor(t, tg, "answerCallbackQuery")
	rq.Equal(true, answer.body["show_alert"])
	rq.Equal("❌ Failed to fetch deals", answer.body["text"])

	_, edited := tg.find("editMessageText")
	rq.False(edited)
}

func TestNoopCallback(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	api := &stubLister{deals: pending(7)}
	tg := runBot(t, api, callback(operatorsChat, "noop"))

	answer := waitFor(t, tg, "answerCallbackQuery")
	rq.Equal("cb-1", answer.body["callback_query_id"])
	rq.Equal([]string{"answerCallbackQuery"}, tg.methods())
	rq.Zero(api.calls.Load())
}

func TestForeignChat(t *testing.T) {
	t.Parallel()

	t.Run("Command ignored", func(t *testing.T) {
		t.Parallel()
		rq := require.New(t)

		api := &stubLister{deals: pending(3)}
		tg := runBot(t, api, command(otherChat, "/pending"))

		rq.Never(func() bool { return len(tg.list()) > 0 }, 200*time.Millisecond, 10*time.Millisecond)
		rq.Zero(api.calls.Load())
	})

	t.Run("Callback answered but not served", func(t *testing.T) {
		t.Parallel()
		rq := require.New(t)

		api := &stubLister{deals: pending(7)}
		tg := runBot(t, api, callback(otherChat, "pending_page:2"))

		waitFor(t, tg, "answerCallbackQuery")
		rq.Equal([]string{"answerCallbackQuery"}, tg.methods())
		rq.Zero(api.calls.Load())
	})

	t.Run("Callback without message answered", func(t *testing.T) {
		t.Parallel()
		rq := require.New(t)

		update := callback(operatorsChat, "pending_page:2")
		update.CallbackQuery.Message = nil

		api := &stubLister{deals: pending(7)}
		tg := runBot(t, api, update)

		answer := waitFor(t, tg, "answerCallbackQuery")
		rq.Equal("cb-1", answer.body["callback_query_id"])
		rq.NotContains(tg.methods(), "editMessageText")
		rq.Zero(api.calls.Load())
	})
}
