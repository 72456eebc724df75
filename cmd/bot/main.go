// Package main — точка входа бота.
// Загружает конфигурацию, инициализирует приложение и запускает.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/app"
	"serotonyl.ru/quest-bot/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== Бот запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.AppLogLevel).Warn("Неизвестный APP_LOG_LEVEL, остаётся debug")
	}

	// Контекст отменяется по Ctrl+C / docker stop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.Close()

	if err := application.Scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}
	defer application.Scheduler.Stop()

	log.WithFields(log.Fields{
		"env":      cfg.AppEnv,
		"timezone": cfg.AppTimezone,
	}).Info("=== Бот готов к работе ===")

	// Блокируемся до сигнала: Start возвращается после отмены ctx
	// и завершения уже принятых апдейтов
	if err := application.Bot.Start(ctx); err != nil {
		log.WithError(err).Error("Бот остановился с ошибкой")
	}

	log.Info("=== Бот остановлен ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
