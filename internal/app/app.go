// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, Redis, репозитории, сервисы, обработчики,
// планировщик и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/bot"
	"serotonyl.ru/quest-bot/internal/cache/redis"
	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/config"
	"serotonyl.ru/quest-bot/internal/db/postgres"
	"serotonyl.ru/quest-bot/internal/features/character"
	"serotonyl.ru/quest-bot/internal/features/hydration"
	"serotonyl.ru/quest-bot/internal/features/quests"
	"serotonyl.ru/quest-bot/internal/jobs"
)

// reminderSpec — как часто проверяем, кому пора напомнить о воде.
const reminderSpec = "* * * * *"

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Redis     *redis.Client
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	applied, err := RunMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.WithField("applied", applied).Info("Схема БД актуальна")

	// === 2. Отсрочка напоминаний: Redis или память процесса ===
	var (
		rdb     *redis.Client
		snoozer hydration.Snoozer
	)
	if cfg.RedisAddr != "" {
		rdb, err = redis.New(redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			pool.Close()
			return nil, err
		}
		snoozer = rdb
	} else {
		log.Warn("REDIS_ADDR не задан: отсрочка напоминаний хранится в памяти (только одна реплика)")
		snoozer = hydration.NewMemorySnoozer()
	}

	// === 3. Telegram Bot API ===
	botAPI, err := bot.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		closeAll(pool, rdb)
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := botAPI.GetMe(ctx)
	if err != nil {
		closeAll(pool, rdb)
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	sender := bot.NewTelegoSender(botAPI)
	clock := common.NewClock(cfg.Location())

	// === 4. Репозитории ===
	characterRepo := character.NewRepository(pool)
	questRepo := quests.NewRepository(pool)
	hydrationRepo := hydration.NewRepository(pool)

	// === 5. Сервисы ===
	characterService := character.NewService(characterRepo)
	questService := quests.NewService(questRepo, characterService, clock)
	hydrationService := hydration.NewService(hydrationRepo, characterService, snoozer, clock, hydration.Options{
		DefaultGoalLitres: cfg.HydrationDefaultGoal,
		RemindInterval:    cfg.HydrationRemindInterval,
		StreakBonus:       cfg.HydrationStreakBonus,
	})

	// === 6. Обработчики ===
	characterHandler := character.NewHandler(characterService, sender, clock)
	questHandler := quests.NewHandler(questService, sender)
	hydrationHandler := hydration.NewHandler(hydrationService, sender)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg, sender,
		characterService,
		characterHandler,
		hydrationHandler,
		questHandler,
	)

	// === 8. Планировщик задач ===
	opts := jobs.Options{Location: clock.Location()}
	var reminders jobs.ReminderJob
	if cfg.FeatureHydrationEnabled {
		opts.ReminderSpec = reminderSpec
		reminders = hydrationHandler
	}
	var digest *jobs.Digest
	if cfg.FeatureQuotesEnabled {
		opts.QuoteDigestCron = cfg.QuoteDigestCron
		digest = jobs.NewDigest(characterService, questService, sender, clock)
	}
	scheduler := jobs.NewScheduler(opts, reminders, digest)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		Redis:     rdb,
		BotAPI:    botAPI,
	}, nil
}

// Close освобождает соединения с БД и Redis.
func (a *App) Close() {
	closeAll(a.DB, a.Redis)
}

func closeAll(pool *pgxpool.Pool, rdb *redis.Client) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("Ошибка закрытия Redis")
		}
	}
	if pool != nil {
		pool.Close()
	}
}
