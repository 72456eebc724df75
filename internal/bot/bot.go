// Package bot содержит главный модуль бота — запуск polling, фильтры и маршрутизацию команд.
package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/bot/filters"
	"serotonyl.ru/quest-bot/internal/bot/middleware"
	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/config"
	"serotonyl.ru/quest-bot/internal/features/character"
	"serotonyl.ru/quest-bot/internal/features/hydration"
	"serotonyl.ru/quest-bot/internal/features/quests"
)

const helpText = `⚔️ Квест-бот: прокачивай героя, выполняя дела дня.

Герой:
!профиль — уровень, ранг, прогресс
!герой <имя> <класс> [тема] — создать героя
!характер <набор> — набор цитат
!цитата — цитата дня
!опыт — последние начисления
!уведомления вкл|выкл
!уровни — пороги уровней

Квесты:
!квест <сложность> <цель> [категория] <название>
!квесты — квест дня
!прогресс <номер> <значение>
!готово <номер> — отметить / снять отметку
!удалить <номер>

Дневник:
!заметка <текст>, !настроение <эмодзи>, !память <текст>
!дневник, !месяц [ММ.ГГГГ], !год [ГГГГ]

Вода:
!вода [литры] — выпил (по умолчанию 250 мл)
!пропустить — отметиться без воды
!цель <литры> — дневная норма
!гидратация — бутылка дня и стрик`

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api    *telego.Bot
	cfg    *config.Config
	sender common.Sender

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	characterService *character.Service

	characterHandler *character.Handler
	hydrationHandler *hydration.Handler
	questHandler     *quests.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
	wg       sync.WaitGroup
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *telego.Bot,
	cfg *config.Config,
	sender common.Sender,
	characterService *character.Service,
	characterHandler *character.Handler,
	hydrationHandler *hydration.Handler,
	questHandler *quests.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:              api,
		cfg:              cfg,
		sender:           sender,
		chatFilter:       filters.NewChatFilter(),
		rateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		characterService: characterService,
		characterHandler: characterHandler,
		hydrationHandler: hydrationHandler,
		questHandler:     questHandler,
		parser:           NewCommandParser(),
		inflight:         make(chan struct{}, maxInFlight),
	}
}

// Start запускает long polling и блокируется до отмены ctx.
// Перед возвратом дожидается обработки уже принятых апдейтов.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.BotUpdateTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("не удалось запустить long polling: %w", err)
	}
	defer b.rateLimiter.Close()
	defer b.wg.Wait()

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			select {
			case b.inflight <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			b.wg.Add(1)
			go func(upd telego.Update) {
				defer b.wg.Done()
				defer func() { <-b.inflight }()
				defer middleware.RecoverFromPanic(upd.UpdateID)
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	// Профиль создаётся при первом сообщении, имя обновляется при каждом
	profile, err := b.characterService.EnsureProfile(ctx, userID, message.From.Username, message.From.FirstName)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureProfile failed")
		b.sendMessage(ctx, chatID, "❌ Не удалось загрузить профиль, попробуй позже")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	log.WithFields(log.Fields{
		"isCommand": isCommand,
		"cmd":       cmd,
		"args":      args,
	}).Debug("parsed command")

	if !isCommand {
		b.sendMessage(ctx, chatID, "🤔 Не понял. Список команд: /help")
		return
	}
	b.routeCommand(ctx, chatID, profile, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID int64, profile *character.Profile, cmd string, args []string) {
	userID := profile.UserID
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start":
		b.sendMessage(ctx, chatID, fmt.Sprintf("👋 Привет, %s!\n\n%s", profile.DisplayName(), helpText))
	case "help", "помощь", "команды":
		b.sendMessage(ctx, chatID, helpText)

	// --- Герой ---
	case "профиль", "profile":
		b.characterHandler.HandleProfile(ctx, chatID, userID)
	case "герой", "hero":
		b.characterHandler.HandleCreateHero(ctx, chatID, userID, args)
	case "характер":
		b.characterHandler.HandlePersonality(ctx, chatID, userID, args)
	case "цитата", "quote":
		if b.cfg.FeatureQuotesEnabled {
			b.characterHandler.HandleQuote(ctx, chatID, userID)
		} else {
			b.sendMessage(ctx, chatID, "💬 Цитаты временно отключены")
		}
	case "опыт", "история", "xp":
		b.characterHandler.HandleHistory(ctx, chatID, userID)
	case "уведомления":
		b.characterHandler.HandleNotifications(ctx, chatID, userID, args)
	case "уровни", "levels":
		b.characterHandler.HandleLevels(ctx, chatID)

	// --- Квесты ---
	case "квест", "quest":
		b.questHandler.HandleCreate(ctx, chatID, userID, args)
	case "квесты", "quests", "сегодня":
		b.questHandler.HandleList(ctx, chatID, userID)
	case "прогресс":
		b.questHandler.HandleProgress(ctx, chatID, userID, args)
	case "готово", "done":
		b.questHandler.HandleToggle(ctx, chatID, userID, args)
	case "удалить":
		b.questHandler.HandleDelete(ctx, chatID, userID, args)

	// --- Дневник и аналитика ---
	case "заметка":
		b.questHandler.HandleJournal(ctx, chatID, userID, quests.FieldNotes, args)
	case "настроение":
		b.questHandler.HandleJournal(ctx, chatID, userID, quests.FieldMood, args)
	case "память":
		b.questHandler.HandleJournal(ctx, chatID, userID, quests.FieldMemories, args)
	case "дневник":
		b.questHandler.HandleDiary(ctx, chatID, userID)
	case "месяц":
		b.questHandler.HandleMonth(ctx, chatID, userID, args)
	case "год":
		b.questHandler.HandleYear(ctx, chatID, userID, args)

	// --- Вода ---
	case "вода", "water", "пропустить", "цель", "гидратация":
		if !b.cfg.FeatureHydrationEnabled {
			b.sendMessage(ctx, chatID, "💧 Трекер воды временно отключён")
			return
		}
		b.routeHydration(ctx, chatID, userID, cmd, args)

	default:
		b.sendMessage(ctx, chatID, "🤔 Неизвестная команда. Список команд: /help")
	}
}

func (b *Bot) routeHydration(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	switch cmd {
	case "вода", "water":
		b.hydrationHandler.HandleWater(ctx, chatID, userID, args)
	case "пропустить":
		b.hydrationHandler.HandleSkip(ctx, chatID, userID)
	case "цель":
		b.hydrationHandler.HandleGoal(ctx, chatID, userID, args)
	case "гидратация":
		b.hydrationHandler.HandleStatus(ctx, chatID, userID)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := b.sender.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
