// Package character — handlers.go обрабатывает команды:
// !профиль, !герой, !характер, !цитата, !опыт, !уведомления, !уровни.
package character

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// levelsTableSize — сколько уровней показывает !уровни.
const levelsTableSize = 15

// Handler обрабатывает команды профиля.
type Handler struct {
	service *Service
	sender  common.Sender
	clock   *common.Clock
}

// NewHandler создаёт обработчик команд профиля.
func NewHandler(service *Service, sender common.Sender, clock *common.Clock) *Handler {
	return &Handler{service: service, sender: sender, clock: clock}
}

// HandleProfile показывает карточку героя.
func (h *Handler) HandleProfile(ctx context.Context, chatID, userID int64) {
	p, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения профиля")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения профиля")
		return
	}
	h.sendMessage(ctx, chatID, RenderProfile(p))
}

// HandleCreateHero обрабатывает !герой <имя> <класс> [тема].
// Имя может состоять из нескольких слов: класс и тема ищутся с конца.
func (h *Handler) HandleCreateHero(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(ctx, chatID, "❌ Формат: !герой <имя> <класс> [тема]\n"+
			"Классы: воин, маг, ассасин, лучник, рыцарь, берсерк\n"+
			"Темы: синий, фиолетовый, красный, золотой, зелёный")
		return
	}

	theme := ThemeBlue
	rest := args
	if t, ok := ParseTheme(rest[len(rest)-1]); ok && len(rest) >= 3 {
		theme = t
		rest = rest[:len(rest)-1]
	}
	avatar, ok := ParseAvatar(rest[len(rest)-1])
	if !ok {
		h.sendMessage(ctx, chatID, "❌ Неизвестный класс. Доступны: воин, маг, ассасин, лучник, рыцарь, берсерк")
		return
	}
	name := strings.Join(rest[:len(rest)-1], " ")

	c, err := h.service.CreateCharacter(ctx, userID, name, avatar, theme)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка создания героя"))
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("✨ Герой создан: %s, %s", c.Name, c.Avatar.Title()))
}

// HandlePersonality обрабатывает !характер <набор>.
func (h *Handler) HandlePersonality(ctx context.Context, chatID, userID int64, args []string) {
	names := make([]string, 0, len(quotes.All()))
	for _, p := range quotes.All() {
		names = append(names, string(p))
	}
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !характер <"+strings.Join(names, "|")+">")
		return
	}

	p, err := h.service.SetPersonality(ctx, userID, args[0])
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка смены характера"))
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("💬 Характер: %s\nЦитата дня: %s", p, quotes.DailyQuote(p, h.clock.Now())))
}

// HandleQuote обрабатывает !цитата — цитата дня по характеру профиля.
func (h *Handler) HandleQuote(ctx context.Context, chatID, userID int64) {
	p, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка получения профиля"))
		return
	}
	h.sendMessage(ctx, chatID, "💬 "+quotes.DailyQuote(p.Personality, h.clock.Now()))
}

// historySize — сколько последних начислений показывает !опыт.
const historySize = 10

// HandleHistory обрабатывает !опыт — последние начисления.
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	events, err := h.service.RecentXP(ctx, userID, historySize)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка получения истории опыта"))
		return
	}
	h.sendMessage(ctx, chatID, RenderHistory(events, h.clock.Location()))
}

// HandleNotifications обрабатывает !уведомления вкл|выкл.
func (h *Handler) HandleNotifications(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !уведомления вкл|выкл")
		return
	}
	var enabled bool
	switch strings.ToLower(args[0]) {
	case "вкл", "on", "да":
		enabled = true
	case "выкл", "off", "нет":
		enabled = false
	default:
		h.sendMessage(ctx, chatID, "❌ Формат: !уведомления вкл|выкл")
		return
	}

	if err := h.service.SetNotifications(ctx, userID, enabled); err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка сохранения настроек"))
		return
	}
	if enabled {
		h.sendMessage(ctx, chatID, "🔔 Напоминания включены")
	} else {
		h.sendMessage(ctx, chatID, "🔕 Напоминания выключены")
	}
}

// HandleLevels показывает таблицу порогов уровней.
func (h *Handler) HandleLevels(ctx context.Context, chatID int64) {
	h.sendMessage(ctx, chatID, RenderLevelsTable(levelsTableSize))
}

// RenderProfile собирает карточку героя.
func RenderProfile(p *Profile) string {
	progress := p.Progression.Progress()

	var sb strings.Builder
	fmt.Fprintf(&sb, "🦸 %s: %s\n", p.DisplayName(), p.Character.Avatar.Title())
	fmt.Fprintf(&sb, "🏅 Ранг %s · Уровень %d\n", p.Progression.Rank, p.Progression.Level)
	fmt.Fprintf(&sb, "%s %.0f%%\n", common.ProgressBar(progress.Percentage, 10), progress.Percentage)
	fmt.Fprintf(&sb, "⭐ Всего: %s\n", common.FormatXP(p.Progression.TotalPoints))
	if p.Progression.Level < MaxLevel {
		fmt.Fprintf(&sb, "⬆️ До %d уровня: %s\n", p.Progression.Level+1, common.FormatXP(progress.PointsToNextLevel()))
	}
	if next, threshold, ok := NextRankThreshold(p.Progression.TotalPoints); ok {
		fmt.Fprintf(&sb, "🎯 До ранга %s: %s\n", next, common.FormatXP(threshold-p.Progression.TotalPoints))
	}

	notif := "выкл"
	if p.Preferences.Notifications {
		notif = "вкл"
	}
	fmt.Fprintf(&sb, "🔔 Уведомления: %s\n", notif)
	fmt.Fprintf(&sb, "💬 Характер: %s", p.Personality)
	if !p.CharacterCreated {
		sb.WriteString("\n\nСоздай героя: !герой <имя> <класс> [тема]")
	}
	return sb.String()
}

// sourceIcons — значок источника опыта в истории.
var sourceIcons = map[string]string{
	SourceQuestComplete:   "⚔️",
	SourceHydrationStreak: "💧",
}

// RenderHistory выводит начисления от новых к старым во времени loc.
func RenderHistory(events []*XPEvent, loc *time.Location) string {
	if len(events) == 0 {
		return "📋 Опыта пока нет. Выполни квест: !квесты"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Последние начисления (%d):\n\n", len(events))
	for i, e := range events {
		icon, ok := sourceIcons[e.Source]
		if !ok {
			icon = "✨"
		}
		fmt.Fprintf(&sb, "%d. %s %s | %s | %s\n",
			i+1, icon, e.CreatedAt.In(loc).Format("02.01 15:04"), common.FormatXPAmount(e.Points), e.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderLevelsTable выводит пороги первых n уровней.
func RenderLevelsTable(n int) string {
	if n > MaxLevel {
		n = MaxLevel
	}
	var sb strings.Builder
	sb.WriteString("📜 Пороги уровней:\n")
	for level := 1; level <= n; level++ {
		fmt.Fprintf(&sb, "%2d · %s\n", level, common.FormatXP(PointsRequiredForLevel(level)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// errorText переводит известные ошибки в сообщение пользователю.
func errorText(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrInvalidCharacterName),
		errors.Is(err, common.ErrUnknownAvatar),
		errors.Is(err, common.ErrUnknownTheme),
		errors.Is(err, common.ErrUnknownPersonality):
		return "❌ " + common.Capitalize(err.Error())
	case errors.Is(err, common.ErrProfileNotFound):
		return "❌ Профиль не найден, напиши /start"
	default:
		log.WithError(err).Error(fallback)
		return fallback
	}
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
