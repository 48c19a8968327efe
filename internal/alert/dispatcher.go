package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/report"
)

// Result records the outcome of an alert delivery attempt per channel.
// A skipped channel carries ErrNotConfigured; a failed delivery carries
// the transport error. Neither blocks the other channel.
type Result struct {
	TelegramSent bool
	EmailSent    bool
	TelegramErr  error
	EmailErr     error
}

// Dispatcher fans a budget alert out to the telegram and mail channels.
type Dispatcher struct {
	cfg      Config
	telegram *TelegramClient
	mailer   *Mailer
	logger   *slog.Logger

	now func() time.Time
}

func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		telegram: NewTelegramClient(cfg.BotToken),
		mailer:   NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		logger:   logger,
		now:      time.Now,
	}
}

// SendBudgetAlert composes one plain-text message and attempts delivery on
// both channels. Channel failures are logged and recorded, never fatal.
func (d *Dispatcher) SendBudgetAlert(ctx context.Context, user *model.User, a report.Alert) Result {
	status := "NEAR LIMIT"
	if a.Level == report.LevelExceeded {
		status = "OVER LIMIT"
	}
	message := fmt.Sprintf(
		"Budget Alert!\nUser: %s\nCategory: %s\nSpent: %.2f\nLimit: %.2f\nStatus: %s\nTime: %s",
		user.Username, a.Category, a.Spent, a.Limit, status, d.now().Format(time.RFC3339),
	)

	var res Result

	chatID := d.cfg.ChatIDFor(user.Username)
	if err := d.telegram.Send(ctx, chatID, message); err != nil {
		res.TelegramErr = err
		d.logger.Warn("telegram alert not delivered", "user", user.Username, "category", a.Category, "error", err)
	} else {
		res.TelegramSent = true
	}

	res.EmailSent, res.EmailErr = d.sendMail(user, a.Category, message)
	if res.EmailErr != nil {
		d.logger.Warn("email alert not delivered", "user", user.Username, "category", a.Category, "error", res.EmailErr)
	}

	return res
}

func (d *Dispatcher) sendMail(user *model.User, category, message string) (bool, error) {
	if user.Email == "" {
		return false, fmt.Errorf("user has no email: %w", ErrNotConfigured)
	}
	subject := "Budget Alert: " + category
	if err := d.mailer.Send(user.Email, subject, message); err != nil {
		return false, err
	}
	return true, nil
}
