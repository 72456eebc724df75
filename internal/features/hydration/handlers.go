// Package hydration — handlers.go обрабатывает команды:
// !вода, !пропустить, !цель, !гидратация. Плюс рассылка напоминаний.
package hydration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// Handler обрабатывает команды гидратации.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик команд гидратации.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleWater обрабатывает !вода <литры>. Без аргумента — стакан 0.25 л.
func (h *Handler) HandleWater(ctx context.Context, chatID, userID int64, args []string) {
	amount := 0.25
	if len(args) > 0 {
		v, err := common.ParseLitres(strings.Join(args, ""))
		if err != nil {
			h.sendMessage(ctx, chatID, "❌ Формат: !вода 0.5 (литры) или !вода 250мл")
			return
		}
		amount = v
	}

	out, err := h.service.Log(ctx, userID, amount)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка записи воды"))
		return
	}
	h.sendMessage(ctx, chatID, RenderLog(out, amount))
}

// HandleSkip обрабатывает !пропустить — отметка без воды.
func (h *Handler) HandleSkip(ctx context.Context, chatID, userID int64) {
	out, err := h.service.Skip(ctx, userID)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка отметки"))
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("⏭ Напоминание отложено. Сегодня: %s / %s л",
		common.FormatLitres(out.State.TodayTotalLitres), common.FormatLitres(out.State.DailyGoalLitres)))
}

// HandleGoal обрабатывает !цель <литры>.
func (h *Handler) HandleGoal(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !цель 2.5")
		return
	}
	v, err := common.ParseLitres(strings.Join(args, ""))
	if err != nil {
		h.sendMessage(ctx, chatID, "❌ Формат: !цель 2.5")
		return
	}
	rec, err := h.service.SetGoal(ctx, userID, v)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка сохранения цели"))
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("🎯 Дневная норма: %s л", common.FormatLitres(rec.State.DailyGoalLitres)))
}

// HandleStatus обрабатывает !гидратация — показывает бутылку.
func (h *Handler) HandleStatus(ctx context.Context, chatID, userID int64) {
	rec, err := h.service.Status(ctx, userID)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка получения данных"))
		return
	}
	h.sendMessage(ctx, chatID, RenderStatus(rec, h.service.Now()))
}

// SendReminders рассылает напоминания тем, кому пора. Вызывается планировщиком.
func (h *Handler) SendReminders(ctx context.Context) {
	reminders, err := h.service.DueReminders(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка выбора напоминаний о воде")
		return
	}

	now := h.service.Now()
	sent := 0
	for _, r := range reminders {
		text := fmt.Sprintf("💧 %s\n\nСегодня: %s / %s л\n!вода 0.25 или !пропустить",
			quotes.HydrationQuote(nil),
			common.FormatLitres(EffectiveToday(r.State, now)),
			common.FormatLitres(r.State.DailyGoalLitres))
		if err := h.sender.SendText(ctx, r.UserID, text); err != nil {
			log.WithError(err).WithField("user_id", r.UserID).Warn("Не удалось отправить напоминание")
			continue
		}
		sent++
	}
	if sent > 0 {
		log.WithField("sent", sent).Info("Напоминания о воде отправлены")
	}
}

// RenderLog — ответ на отметку воды.
func RenderLog(out *LogOutcome, amount float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💧 +%s л. Сегодня: %s / %s л\n",
		common.FormatLitres(amount),
		common.FormatLitres(out.State.TodayTotalLitres),
		common.FormatLitres(out.State.DailyGoalLitres))
	sb.WriteString(bottle(out.State.TodayTotalLitres, out.State.DailyGoalLitres))
	if out.StreakAwarded {
		fmt.Fprintf(&sb, "\n\n🎉 Норма выполнена! Стрик: %d %s", out.State.StreakDays, common.PluralizeDays(out.State.StreakDays))
		if out.BonusPoints > 0 {
			fmt.Fprintf(&sb, " (%s)", common.FormatXPAmount(out.BonusPoints))
		}
		if out.LeveledUp {
			fmt.Fprintf(&sb, "\n⬆️ Новый уровень: %d", out.NewLevel)
		}
	}
	return sb.String()
}

// RenderStatus — бутылка с прогрессом дня и стриком.
func RenderStatus(rec *Record, now time.Time) string {
	today := EffectiveToday(rec.State, now)
	goal := rec.State.DailyGoalLitres
	if goal <= 0 {
		goal = DefaultDailyGoalLitres
	}

	streak := 0
	if StreakAlive(rec.State, now) {
		streak = rec.State.StreakDays
	}

	var sb strings.Builder
	sb.WriteString("🧴 Гидратация\n")
	fmt.Fprintf(&sb, "Сегодня: %s / %s л\n", common.FormatLitres(today), common.FormatLitres(goal))
	sb.WriteString(bottle(today, goal) + "\n")
	fmt.Fprintf(&sb, "🔥 Стрик: %d %s\n", streak, common.PluralizeDays(streak))
	fmt.Fprintf(&sb, "🏆 Рекорд: %d %s", rec.LongestStreak, common.PluralizeDays(rec.LongestStreak))
	if rec.State.LastAck != nil {
		fmt.Fprintf(&sb, "\n🕒 Последняя отметка: %s", rec.State.LastAck.In(now.Location()).Format("02.01 15:04"))
	}
	return sb.String()
}

func bottle(today, goal float64) string {
	pct := 0.0
	if goal > 0 {
		pct = math.Min(today/goal*100, 100)
	}
	return fmt.Sprintf("%s %.0f%%", common.ProgressBar(pct, 10), pct)
}

func errorText(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrInvalidHydrationAmount),
		errors.Is(err, common.ErrInvalidHydrationGoal):
		return "❌ " + common.Capitalize(err.Error())
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
