package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL          string
	HTTPListenAddr       string
	LogLevel             string
	Environment          string
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFrom            string
	EmailSubjectFmt      string
	HistoryRetentionDays int
	CronSpecHistoryPurge string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		portStr = "25"
	}
	cfg.SMTPPort, err = strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "no-reply@example.com"
	}

	cfg.EmailSubjectFmt = os.Getenv("EMAIL_SUBJECT_TEMPLATE")
	if cfg.EmailSubjectFmt == "" {
		cfg.EmailSubjectFmt = "Order acknowledgement %s"
	}

	retentionStr := os.Getenv("HISTORY_RETENTION_DAYS")
	if retentionStr == "" {
		retentionStr = "90"
	}
	cfg.HistoryRetentionDays, err = strconv.Atoi(retentionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_RETENTION_DAYS: %w", err)
	}

	cfg.CronSpecHistoryPurge = os.Getenv("CRON_SPEC_HISTORY_PURGE")
	if cfg.CronSpecHistoryPurge == "" {
		cfg.CronSpecHistoryPurge = "0 3 * * *" // Default: 03:00 daily
	}

	return cfg, nil
}
