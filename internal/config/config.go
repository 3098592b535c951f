package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabaseURL string
	HTTPAddr    string

	// Scheduling subsystem.
	Timezone         string
	RolloverHour     int
	RolloverMinute   int
	DeadlineInterval time.Duration
	RolloverInterval time.Duration

	// Notification transports. FCM is used when a credentials file is set,
	// otherwise Telegram when a bot token is set; with neither, sends are
	// logged and dropped.
	FCMCredentialsFile string
	TelegramToken      string

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:           strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		Timezone:           strings.TrimSpace(os.Getenv("TIMEZONE")),
		DeadlineInterval:   parseInterval(os.Getenv("DEADLINE_INTERVAL")),
		RolloverInterval:   parseInterval(os.Getenv("ROLLOVER_INTERVAL")),
		FCMCredentialsFile: strings.TrimSpace(os.Getenv("FCM_CREDENTIALS_FILE")),
		TelegramToken:      strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		LogLevel:           strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasktracker.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Skopje"
	}
	if cfg.DeadlineInterval == 0 {
		cfg.DeadlineInterval = time.Minute
	}
	if cfg.RolloverInterval == 0 {
		cfg.RolloverInterval = 5 * time.Minute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	target := strings.TrimSpace(os.Getenv("ROLLOVER_TARGET"))
	if target == "" {
		target = "14:00"
	}
	hour, minute, err := ParseTarget(target)
	if err != nil {
		return cfg, fmt.Errorf("ROLLOVER_TARGET: %w", err)
	}
	cfg.RolloverHour = hour
	cfg.RolloverMinute = minute

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// ParseTarget parses an HH:MM wall-clock time string.
func ParseTarget(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour, minute, nil
}

func parseInterval(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
