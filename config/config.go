package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ErrMissingCredentials is returned when a required token or chat id is empty.
var ErrMissingCredentials = errors.New("отсутствуют переменные окружения")

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Credentials for the status API and the bot
	Credentials Credentials

	// Homework status API
	Practicum PracticumConfig

	// Telegram Bot
	Telegram TelegramConfig

	// Poll loop
	Poll PollConfig

	// Health and metrics server
	HTTP HTTPConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string
}

// Credentials are read once at startup and never change.
type Credentials struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
}

// PracticumConfig holds status API settings.
type PracticumConfig struct {
	Endpoint       string
	RequestTimeout time.Duration
}

// TelegramConfig holds Telegram Bot settings.
type TelegramConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// PollConfig holds poll loop settings.
type PollConfig struct {
	// Interval is the sleep between cycles; the fetch window spans two of them.
	Interval time.Duration
}

// HTTPConfig holds the optional health/metrics server settings.
type HTTPConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Load loads configuration from an optional YAML file (CONFIG_FILE) and
// environment variables. Non-empty environment values win over the file.
// A .env file in the working directory only fills variables that are
// not already set.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := &Config{
		App:           loadAppConfig(file),
		Credentials:   loadCredentials(file),
		Practicum:     loadPracticumConfig(file),
		Telegram:      loadTelegramConfig(file),
		Poll:          loadPollConfig(file),
		HTTP:          loadHTTPConfig(file),
		Observability: loadObservabilityConfig(file),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadAppConfig(f *fileConfig) AppConfig {
	env := Environment(getEnv("APP_ENV", orString(f.App.Env, string(EnvDevelopment))))

	return AppConfig{
		Name:        getEnv("APP_NAME", orString(f.App.Name, "homework-bot")),
		Environment: env,
		Debug:       getEnvBool("APP_DEBUG", f.App.Debug),
		Version:     getEnv("APP_VERSION", "0.1.0"),
	}
}

func loadCredentials(f *fileConfig) Credentials {
	return Credentials{
		PracticumToken: getEnv("PRAKTIKUM_TOKEN", f.Practicum.Token),
		TelegramToken:  getEnv("TELEGRAM_TOKEN", f.Telegram.Token),
		TelegramChatID: getEnv("TELEGRAM_CHAT_ID", f.Telegram.ChatID),
	}
}

func loadPracticumConfig(f *fileConfig) PracticumConfig {
	return PracticumConfig{
		Endpoint:       getEnv("PRAKTIKUM_ENDPOINT", orString(f.Practicum.Endpoint, "https://practicum.yandex.ru/api/user_api/homework_statuses/")),
		RequestTimeout: getEnvDuration("PRAKTIKUM_REQUEST_TIMEOUT", orDuration(f.Practicum.RequestTimeout, 30*time.Second)),
	}
}

func loadTelegramConfig(f *fileConfig) TelegramConfig {
	return TelegramConfig{
		BaseURL:        getEnv("TELEGRAM_BASE_URL", orString(f.Telegram.BaseURL, "https://api.telegram.org")),
		RequestTimeout: getEnvDuration("TELEGRAM_REQUEST_TIMEOUT", orDuration(f.Telegram.RequestTimeout, 30*time.Second)),
	}
}

func loadPollConfig(f *fileConfig) PollConfig {
	return PollConfig{
		Interval: getEnvDuration("POLL_INTERVAL", orDuration(f.Poll.Interval, 600*time.Second)),
	}
}

func loadHTTPConfig(f *fileConfig) HTTPConfig {
	return HTTPConfig{
		Enabled: getEnvBool("HTTP_ENABLED", f.HTTP.Enabled),
		Host:    getEnv("HTTP_HOST", orString(f.HTTP.Host, "0.0.0.0")),
		Port:    getEnvInt("HTTP_PORT", orInt(f.HTTP.Port, 8080)),
	}
}

func loadObservabilityConfig(f *fileConfig) ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  getEnv("LOG_LEVEL", orString(f.Log.Level, "info")),
		LogFormat: getEnv("LOG_FORMAT", orString(f.Log.Format, "text")),
	}
}

// Validate checks if the configuration is valid.
// Credentials are checked separately, once, by the poll driver.
func (c *Config) Validate() error {
	var errs []string

	if c.Poll.Interval <= 0 {
		errs = append(errs, "POLL_INTERVAL must be positive")
	}
	if c.Practicum.RequestTimeout <= 0 {
		errs = append(errs, "PRAKTIKUM_REQUEST_TIMEOUT must be positive")
	}
	if c.Telegram.RequestTimeout <= 0 {
		errs = append(errs, "TELEGRAM_REQUEST_TIMEOUT must be positive")
	}
	if c.HTTP.Enabled && (c.HTTP.Port <= 0 || c.HTTP.Port > 65535) {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, "LOG_FORMAT must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Validate reports every missing credential by its variable name.
func (c Credentials) Validate() error {
	var missing []string
	if c.PracticumToken == "" {
		missing = append(missing, "PRAKTIKUM_TOKEN")
	}
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// getEnvDuration accepts Go durations ("10m") and bare seconds ("600").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return parseDuration(val, defaultVal)
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func orString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func orDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	return parseDuration(v, def)
}
