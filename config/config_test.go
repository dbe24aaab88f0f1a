package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "APP_ENV", "APP_NAME", "APP_DEBUG",
	"PRAKTIKUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
	"PRAKTIKUM_ENDPOINT", "PRAKTIKUM_REQUEST_TIMEOUT",
	"TELEGRAM_BASE_URL", "TELEGRAM_REQUEST_TIMEOUT",
	"POLL_INTERVAL", "HTTP_ENABLED", "HTTP_HOST", "HTTP_PORT",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every config variable for the test; t.Setenv restores
// the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, 600*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "https://practicum.yandex.ru/api/user_api/homework_statuses/", cfg.Practicum.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Practicum.RequestTimeout)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.False(t, cfg.HTTP.Enabled)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRAKTIKUM_TOKEN", "p")
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("POLL_INTERVAL", "120")
	t.Setenv("TELEGRAM_REQUEST_TIMEOUT", "5s")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Credentials{PracticumToken: "p", TelegramToken: "t", TelegramChatID: "42"}, cfg.Credentials)
	assert.Equal(t, 2*time.Minute, cfg.Poll.Interval)
	assert.Equal(t, 5*time.Second, cfg.Telegram.RequestTimeout)
	assert.True(t, cfg.IsProduction())
	assert.NoError(t, cfg.Credentials.Validate())
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
practicum:
  token: file-token
  request_timeout: 10s
telegram:
  token: file-bot
  chat_id: "100"
poll:
  interval: 5m
http:
  enabled: true
  port: 9100
log:
  format: json
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TELEGRAM_CHAT_ID", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Credentials.PracticumToken)
	assert.Equal(t, "file-bot", cfg.Credentials.TelegramToken)
	assert.Equal(t, "200", cfg.Credentials.TelegramChatID)
	assert.Equal(t, 10*time.Second, cfg.Practicum.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Poll.Interval)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"PRAKTIKUM_TOKEN=dotenv-practicum\n"+
			"TELEGRAM_TOKEN=dotenv-bot\n"+
			"TELEGRAM_CHAT_ID=100\n",
	), 0o600))
	chdir(t, dir)

	t.Setenv("TELEGRAM_CHAT_ID", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv-practicum", cfg.Credentials.PracticumToken)
	assert.Equal(t, "dotenv-bot", cfg.Credentials.TelegramToken)
	assert.Equal(t, "200", cfg.Credentials.TelegramChatID, "real environment wins over .env")
	assert.NoError(t, cfg.Credentials.Validate())
}

func TestLoad_NoDotEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Credentials.Validate(), ErrMissingCredentials)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_Ranges(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "0s")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		missing []string
	}{
		{"all present", Credentials{"a", "b", "c"}, nil},
		{"no api token", Credentials{"", "b", "c"}, []string{"PRAKTIKUM_TOKEN"}},
		{"no chat", Credentials{"a", "b", ""}, []string{"TELEGRAM_CHAT_ID"}},
		{"nothing", Credentials{}, []string{"PRAKTIKUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrMissingCredentials)
			for _, name := range tt.missing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}
