package config

import (
	"fmt"
	"os"
	"strconv"

	"fintrack/internal/alert"
)

// Config is the application configuration, read once at startup.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// Alert channel inputs: a JSON file for the bot token + global chat id,
	// a JSON file mapping usernames to chat ids, and SMTP settings from the
	// environment. Env vars override the telegram file when set.
	TelegramConfigFile string
	TelegramUsersFile  string
	BotToken           string
	ChatID             string
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("FINTRACK_PORT", "8080"),
		DBPath:   getEnv("FINTRACK_DB_PATH", "fintrack.db"),
		LogLevel: getEnv("FINTRACK_LOG_LEVEL", "info"),

		TelegramConfigFile: getEnv("TELEGRAM_CONFIG_FILE", "telegram_config.json"),
		TelegramUsersFile:  getEnv("TELEGRAM_USERS_FILE", "telegram_users.json"),
		BotToken:           getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:             getEnv("TELEGRAM_CHAT_ID", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", ""),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
	}
}

// Validate checks the parts of the configuration that must be well-formed
// when present. Missing alert credentials are fine; they just disable a
// channel.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.SMTPPort != "" {
		if _, err := strconv.Atoi(c.SMTPPort); err != nil {
			return fmt.Errorf("invalid SMTP port %q: must be a number", c.SMTPPort)
		}
	}
	return nil
}

// AlertConfig assembles the dispatcher configuration from the telegram
// JSON files and the environment. Env vars win over file values.
func (c *Config) AlertConfig() (alert.Config, error) {
	cfg, err := alert.LoadTelegramConfig(c.TelegramConfigFile)
	if err != nil {
		return alert.Config{}, err
	}
	if c.BotToken != "" {
		cfg.BotToken = c.BotToken
	}
	if c.ChatID != "" {
		cfg.ChatID = c.ChatID
	}

	chatMap, err := alert.LoadChatMap(c.TelegramUsersFile)
	if err != nil {
		return alert.Config{}, err
	}
	cfg.PerUserChat = chatMap

	cfg.SMTPHost = c.SMTPHost
	cfg.SMTPPort = c.SMTPPort
	cfg.SMTPUser = c.SMTPUser
	cfg.SMTPPass = c.SMTPPass
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
