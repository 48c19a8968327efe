package alert

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/logging"
	"fintrack/internal/model"
	"fintrack/internal/report"
)

func newTestDispatcher(cfg Config, telegramURL string) *Dispatcher {
	d := NewDispatcher(cfg, logging.Discard())
	if telegramURL != "" {
		d.telegram = NewTelegramClient(cfg.BotToken, WithBaseURL(telegramURL))
	}
	d.now = func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestDispatcherSendsTelegram(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := Config{BotToken: "tok", ChatID: "42"}
	d := newTestDispatcher(cfg, srv.URL)

	user := &model.User{Username: "alice"}
	res := d.SendBudgetAlert(context.Background(), user, report.Alert{
		Category: "Food", Spent: 120, Limit: 100, Percent: 120, Level: report.LevelExceeded,
	})

	assert.True(t, res.TelegramSent)
	assert.NoError(t, res.TelegramErr)
	assert.Contains(t, gotText, "User: alice")
	assert.Contains(t, gotText, "Category: Food")
	assert.Contains(t, gotText, "Status: OVER LIMIT")

	// No email address, so mail is skipped as unconfigured
	assert.False(t, res.EmailSent)
	assert.ErrorIs(t, res.EmailErr, ErrNotConfigured)
}

func TestDispatcherNearingStatus(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := newTestDispatcher(Config{BotToken: "tok", ChatID: "42"}, srv.URL)
	d.SendBudgetAlert(context.Background(), &model.User{Username: "alice"}, report.Alert{
		Category: "Food", Spent: 85, Limit: 100, Percent: 85, Level: report.LevelNearing,
	})

	assert.Contains(t, gotText, "Status: NEAR LIMIT")
}

func TestDispatcherChannelsIndependent(t *testing.T) {
	// Telegram fails with a 500; the email attempt must still run
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDispatcher(Config{BotToken: "tok", ChatID: "42"}, srv.URL)
	res := d.SendBudgetAlert(context.Background(), &model.User{Username: "alice"}, report.Alert{
		Category: "Food", Spent: 120, Limit: 100, Level: report.LevelExceeded,
	})

	assert.False(t, res.TelegramSent)
	assert.NotErrorIs(t, res.TelegramErr, ErrNotConfigured, "a 500 is a transport failure, not missing config")
	assert.False(t, res.EmailSent)
	assert.ErrorIs(t, res.EmailErr, ErrNotConfigured)
}

func TestDispatcherUnconfiguredChannels(t *testing.T) {
	d := newTestDispatcher(Config{}, "")
	res := d.SendBudgetAlert(context.Background(), &model.User{Username: "alice", Email: "a@example.com"}, report.Alert{
		Category: "Food", Spent: 120, Limit: 100, Level: report.LevelExceeded,
	})

	assert.False(t, res.TelegramSent)
	assert.ErrorIs(t, res.TelegramErr, ErrNotConfigured)
	assert.False(t, res.EmailSent)
	assert.ErrorIs(t, res.EmailErr, ErrNotConfigured)
}

func TestDispatcherPerUserChat(t *testing.T) {
	var gotChatID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotChatID = r.FormValue("chat_id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := Config{
		BotToken:    "tok",
		ChatID:      "global",
		PerUserChat: map[string]string{"alice": "alice-chat"},
	}
	d := newTestDispatcher(cfg, srv.URL)
	d.SendBudgetAlert(context.Background(), &model.User{Username: "alice"}, report.Alert{
		Category: "Food", Spent: 120, Limit: 100, Level: report.LevelExceeded,
	})

	assert.Equal(t, "alice-chat", gotChatID)
}

func TestMailerConfigured(t *testing.T) {
	assert.False(t, NewMailer("", "", "", "").Configured())
	assert.False(t, NewMailer("smtp.example.com", "465", "user", "").Configured())
	assert.True(t, NewMailer("smtp.example.com", "465", "user", "pass").Configured())

	err := NewMailer("", "", "", "").Send("to@example.com", "s", "b")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAlertMessageFormat(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := newTestDispatcher(Config{BotToken: "tok", ChatID: "42"}, srv.URL)
	d.SendBudgetAlert(context.Background(), &model.User{Username: "alice"}, report.Alert{
		Category: "Rent", Spent: 1300.5, Limit: 1200, Level: report.LevelExceeded,
	})

	lines := strings.Split(gotText, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Budget Alert!", lines[0])
	assert.Equal(t, "User: alice", lines[1])
	assert.Equal(t, "Category: Rent", lines[2])
	assert.Equal(t, "Spent: 1300.50", lines[3])
	assert.Equal(t, "Limit: 1200.00", lines[4])
	assert.Equal(t, "Status: OVER LIMIT", lines[5])
}
