package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/acks")
	t.Setenv("SMTP_HOST", "smtp.example.com")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 25, cfg.SMTPPort)
	assert.Equal(t, "no-reply@example.com", cfg.EmailFrom)
	assert.Equal(t, "Order acknowledgement %s", cfg.EmailSubjectFmt)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.CronSpecHistoryPurge)
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadFailsWithoutSMTPHost(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/acks")
	t.Setenv("SMTP_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")
}

func TestLoadRejectsInvalidSMTPPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("HISTORY_RETENTION_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 30, cfg.HistoryRetentionDays)
}
