// Package main - точка входа бота, отслеживающего статус проверки
// домашней работы.
//
// Бот раз в POLL_INTERVAL запрашивает API статусов домашних работ и
// отправляет сообщение в Telegram, если статус изменился. Процесс
// работает бесконечно, пока его не остановят сигналом.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alem-hub/homework-bot/config"
	"github.com/alem-hub/homework-bot/internal/application/poller"
	"github.com/alem-hub/homework-bot/internal/infrastructure/external/practicum"
	"github.com/alem-hub/homework-bot/internal/infrastructure/external/telegram"
	httpserver "github.com/alem-hub/homework-bot/internal/interface/http"
	"github.com/alem-hub/homework-bot/internal/interface/http/handlers"
)

func main() {
	// Корневой контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// run wires the bot and blocks until ctx is cancelled. Logs go to out.
func run(ctx context.Context, out io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg, out)
	log.Info("запуск бота",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"interval", cfg.Poll.Interval.String(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. МЕТРИКИ
	// ─────────────────────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := poller.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ВНЕШНИЕ КЛИЕНТЫ
	// ─────────────────────────────────────────────────────────────────────────
	practicumConfig := practicum.DefaultClientConfig(cfg.Credentials.PracticumToken)
	practicumConfig.Endpoint = cfg.Practicum.Endpoint
	practicumConfig.Timeout = cfg.Practicum.RequestTimeout
	practicumConfig.Logger = log
	practicumConfig.Debug = cfg.App.Debug
	fetcher := practicum.NewClient(practicumConfig)

	telegramConfig := telegram.DefaultClientConfig(cfg.Credentials.TelegramToken)
	telegramConfig.BaseURL = cfg.Telegram.BaseURL
	telegramConfig.Timeout = cfg.Telegram.RequestTimeout
	telegramConfig.Logger = log
	telegramConfig.Debug = cfg.App.Debug
	bot := telegram.NewClient(telegramConfig)
	notifier := telegram.NewNotifier(bot, cfg.Credentials.TelegramChatID, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. POLL DRIVER (проверка переменных окружения до входа в цикл)
	// ─────────────────────────────────────────────────────────────────────────
	driver, err := poller.New(poller.Config{
		Interval:    cfg.Poll.Interval,
		Credentials: cfg.Credentials,
		Logger:      log,
		Metrics:     metrics,
	}, fetcher, notifier)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			log.Error("программа принудительно остановлена", "error", err)
		}
		return err
	}

	checkBot(ctx, bot, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP СЕРВЕР (health + metrics, опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var server *httpserver.Server
	if cfg.HTTP.Enabled {
		checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
		checker.SetTimeout(2 * time.Second)
		checker.AddCheck("poller", driver.CheckHealth)

		serverConfig := httpserver.DefaultConfig()
		serverConfig.Host = cfg.HTTP.Host
		serverConfig.Port = cfg.HTTP.Port

		server = httpserver.NewServer(serverConfig, httpserver.Dependencies{
			Logger:         log,
			HealthChecker:  checker,
			Status:         driver,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		})

		go func() {
			if err := <-server.StartAsync(); err != nil {
				log.Error("http server stopped", "error", err)
			}
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ОСНОВНОЙ ЦИКЛ
	// ─────────────────────────────────────────────────────────────────────────
	err = driver.Run(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Warn("http server shutdown failed", "error", shutdownErr)
		}
	}

	if errors.Is(err, context.Canceled) {
		log.Info("бот остановлен")
		return nil
	}
	return err
}

// checkBot проверяет токен бота один раз при старте; ошибка не фатальна.
func checkBot(ctx context.Context, bot *telegram.Client, log *slog.Logger) {
	user, err := bot.GetMe(ctx)
	if err != nil {
		log.Warn("telegram bot check failed", "error", err)
		return
	}
	log.Info("telegram bot authorized", "username", user.Username)
}

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	// production всегда пишет JSON
	if cfg.IsProduction() || strings.EqualFold(cfg.Observability.LogFormat, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
