package alert

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotConfigured marks a channel that was skipped because its credentials
// are missing. Callers can tell "channel disabled" apart from a transport
// failure with errors.Is.
var ErrNotConfigured = errors.New("channel not configured")

// Config carries everything the dispatcher needs, injected explicitly at
// construction. A blank field deterministically disables the corresponding
// channel.
type Config struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`

	SMTPHost string `json:"-"`
	SMTPPort string `json:"-"`
	SMTPUser string `json:"-"`
	SMTPPass string `json:"-"`

	// PerUserChat maps usernames to telegram chat ids. A user's entry wins
	// over the global ChatID.
	PerUserChat map[string]string `json:"-"`
}

// ChatIDFor resolves the telegram chat id for a user: per-user mapping
// first, then the global default, else "".
func (c Config) ChatIDFor(username string) string {
	if id, ok := c.PerUserChat[username]; ok && id != "" {
		return id
	}
	return c.ChatID
}

// LoadTelegramConfig reads the bot token and global chat id from a JSON
// file of the form {"bot_token": "...", "chat_id": "..."}. A missing file
// is not an error; it just leaves the channel unconfigured.
func LoadTelegramConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read telegram config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse telegram config: %w", err)
	}
	return cfg, nil
}

// LoadChatMap reads the per-user chat id mapping from a JSON file of the
// form {"username": "chat_id", ...}. A missing file yields an empty map.
func LoadChatMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read chat map: %w", err)
	}
	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse chat map: %w", err)
	}
	return m, nil
}
