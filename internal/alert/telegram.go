package alert

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const telegramTimeout = 10 * time.Second

// TelegramClient sends messages through the Telegram bot API.
type TelegramClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

type TelegramOption func(*TelegramClient)

func WithHTTPClient(c *http.Client) TelegramOption {
	return func(tc *TelegramClient) {
		tc.httpClient = c
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) TelegramOption {
	return func(tc *TelegramClient) {
		tc.baseURL = u
	}
}

func NewTelegramClient(token string, opts ...TelegramOption) *TelegramClient {
	c := &TelegramClient{
		token:      token,
		baseURL:    "https://api.telegram.org",
		httpClient: &http.Client{Timeout: telegramTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the bot token is set.
func (c *TelegramClient) Configured() bool {
	return c.token != ""
}

// Send posts one message to the given chat. Success is solely HTTP 200.
func (c *TelegramClient) Send(ctx context.Context, chatID, text string) error {
	if !c.Configured() || chatID == "" {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
