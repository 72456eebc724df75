// Package quests — handlers.go обрабатывает команды:
// !квест, !квесты, !прогресс, !готово, !удалить,
// !заметка, !настроение, !память, !дневник, !месяц, !год.
package quests

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

// Handler обрабатывает команды квестов.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик команд квестов.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

const createHelp = "Формат: !квест <сложность> <цель> [категория] <название>\n" +
	"Сложность: лёгкий, средний, сложный\n" +
	"Категории: здоровье, работа, учёба, общение, творчество, другое\n" +
	"Пример: !квест средний 10 учёба Прочитать 10 страниц"

// ParseCreateArgs разбирает аргументы !квест.
func ParseCreateArgs(args []string) (NewQuestInput, error) {
	if len(args) < 3 {
		return NewQuestInput{}, errors.New("мало аргументов")
	}
	difficulty, ok := character.ParseDifficulty(args[0])
	if !ok {
		return NewQuestInput{}, common.ErrUnknownDifficulty
	}
	goal, err := strconv.Atoi(args[1])
	if err != nil {
		return NewQuestInput{}, common.ErrInvalidQuestGoal
	}
	rest := args[2:]
	category := CategoryOther
	if c, ok := ParseCategory(rest[0]); ok && len(rest) > 1 {
		category = c
		rest = rest[1:]
	}
	return NewQuestInput{
		Title:      strings.Join(rest, " "),
		Difficulty: difficulty,
		Goal:       goal,
		Category:   category,
	}, nil
}

// HandleCreate обрабатывает !квест.
func (h *Handler) HandleCreate(ctx context.Context, chatID, userID int64, args []string) {
	in, err := ParseCreateArgs(args)
	if err != nil {
		if errors.Is(err, common.ErrUnknownDifficulty) || errors.Is(err, common.ErrInvalidQuestGoal) {
			h.sendMessage(ctx, chatID, "❌ "+common.Capitalize(err.Error())+"\n\n"+createHelp)
			return
		}
		h.sendMessage(ctx, chatID, "❌ "+createHelp)
		return
	}

	q, err := h.service.Create(ctx, userID, in)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка создания квеста"))
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("📜 Новый квест: %s %s\nЦель: %d · Награда: %s",
		q.Category.Icon(), q.Title, q.Goal, common.FormatXP(q.Points)))
}

// HandleList обрабатывает !квесты — квест дня.
func (h *Handler) HandleList(ctx context.Context, chatID, userID int64) {
	dq, err := h.service.Today(ctx, userID)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка получения квестов"))
		return
	}
	h.sendMessage(ctx, chatID, RenderDaily(dq))
}

// HandleProgress обрабатывает !прогресс <номер> <значение>.
func (h *Handler) HandleProgress(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(ctx, chatID, "❌ Формат: !прогресс <номер> <значение>")
		return
	}
	index, err1 := strconv.Atoi(args[0])
	value, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		h.sendMessage(ctx, chatID, "❌ Номер и значение должны быть числами")
		return
	}

	res, err := h.service.SetProgress(ctx, userID, index, value)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка обновления прогресса"))
		return
	}
	h.sendMessage(ctx, chatID, RenderToggle(res))
}

// HandleToggle обрабатывает !готово <номер>.
func (h *Handler) HandleToggle(ctx context.Context, chatID, userID int64, args []string) {
	index, ok := parseIndex(args)
	if !ok {
		h.sendMessage(ctx, chatID, "❌ Формат: !готово <номер>")
		return
	}
	res, err := h.service.Toggle(ctx, userID, index)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка отметки квеста"))
		return
	}
	h.sendMessage(ctx, chatID, RenderToggle(res))
}

// HandleDelete обрабатывает !удалить <номер>.
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	index, ok := parseIndex(args)
	if !ok {
		h.sendMessage(ctx, chatID, "❌ Формат: !удалить <номер>")
		return
	}
	q, err := h.service.Delete(ctx, userID, index)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка удаления квеста"))
		return
	}
	h.sendMessage(ctx, chatID, "🗑 Квест удалён: "+q.Title)
}

// HandleJournal обрабатывает !заметка, !настроение, !память.
func (h *Handler) HandleJournal(ctx context.Context, chatID, userID int64, field JournalField, args []string) {
	value := strings.TrimSpace(strings.Join(args, " "))
	if value == "" {
		switch field {
		case FieldMood:
			h.sendMessage(ctx, chatID, "❌ Формат: !настроение "+strings.Join(Moods, " "))
		default:
			h.sendMessage(ctx, chatID, "❌ Напиши текст после команды")
		}
		return
	}

	if _, err := h.service.WriteJournal(ctx, userID, field, value); err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка записи в дневник"))
		return
	}
	h.sendMessage(ctx, chatID, "📝 Записано в дневник")
}

// HandleDiary обрабатывает !дневник — записи за сегодня.
func (h *Handler) HandleDiary(ctx context.Context, chatID, userID int64) {
	e, err := h.service.Journal(ctx, userID)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка чтения дневника"))
		return
	}
	h.sendMessage(ctx, chatID, RenderJournal(e, h.service.Now()))
}

// HandleMonth обрабатывает !месяц [ММ.ГГГГ].
func (h *Handler) HandleMonth(ctx context.Context, chatID, userID int64, args []string) {
	now := h.service.Now()
	year, month := now.Year(), now.Month()
	if len(args) > 0 {
		t, err := time.Parse("01.2006", args[0])
		if err != nil {
			h.sendMessage(ctx, chatID, "❌ Формат: !месяц 03.2026")
			return
		}
		year, month = t.Year(), t.Month()
	}

	ms, err := h.service.Month(ctx, userID, year, month)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка построения аналитики"))
		return
	}
	h.sendMessage(ctx, chatID, RenderMonth(ms))
}

// HandleYear обрабатывает !год [ГГГГ].
func (h *Handler) HandleYear(ctx context.Context, chatID, userID int64, args []string) {
	year := h.service.Now().Year()
	if len(args) > 0 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 2000 || y > 3000 {
			h.sendMessage(ctx, chatID, "❌ Формат: !год 2026")
			return
		}
		year = y
	}

	ys, err := h.service.Year(ctx, userID, year)
	if err != nil {
		h.sendMessage(ctx, chatID, errorText(err, "❌ Ошибка построения аналитики"))
		return
	}
	h.sendMessage(ctx, chatID, RenderYear(ys))
}

func parseIndex(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// RenderDaily — квест дня: список, прогресс, награда и таймер.
func RenderDaily(dq *DailyQuest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Квест дня %s · осталось %s\n\n", common.FormatDate(dq.Date), common.FormatDuration(dq.TimeRemaining))
	if len(dq.Quests) == 0 {
		sb.WriteString("Квестов пока нет. Добавь: !квест средний 10 учёба Прочитать 10 страниц")
		return sb.String()
	}

	for i, q := range dq.Quests {
		mark := "⬜"
		if q.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s %s [%s] %d/%d · %s\n",
			i+1, mark, q.Category.Icon(), q.Title, q.Difficulty, q.Progress, q.Goal, common.FormatXPAmount(q.Points))
	}
	fmt.Fprintf(&sb, "\n%s %.0f%%\n", common.ProgressBar(dq.CompletionRate, 10), dq.CompletionRate)
	fmt.Fprintf(&sb, "Выполнено: %d из %d · Награда: %s / %s",
		dq.Completed, len(dq.Quests), common.FormatNumber(dq.RewardPoints), common.FormatXP(dq.PotentialPoints))
	if dq.AllDone {
		sb.WriteString("\n\n🏆 Все квесты дня выполнены!")
	}
	return sb.String()
}

// RenderToggle — ответ на изменение квеста.
func RenderToggle(res *ToggleResult) string {
	q := res.Quest
	var sb strings.Builder
	if q.Completed {
		fmt.Fprintf(&sb, "✅ %s: %d/%d", q.Title, q.Progress, q.Goal)
	} else {
		fmt.Fprintf(&sb, "⬜ %s: %d/%d", q.Title, q.Progress, q.Goal)
	}
	if res.Award != nil {
		fmt.Fprintf(&sb, "\n%s", common.FormatXPAmount(res.Award.Points))
		if res.Award.LeveledUp {
			fmt.Fprintf(&sb, "\n⬆️ Новый уровень: %d!", res.Award.After.Level)
		}
		if res.Award.RankChanged {
			fmt.Fprintf(&sb, "\n🏅 Новый ранг: %s!", res.Award.After.Rank)
		}
	}
	if res.DailyQuest != nil && res.DailyQuest.AllDone && res.JustDone {
		sb.WriteString("\n\n🏆 Все квесты дня выполнены!")
	}
	return sb.String()
}

// RenderJournal — дневник дня.
func RenderJournal(e *DailyEntry, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📓 Дневник %s\n", common.FormatDate(now))
	if e == nil {
		sb.WriteString("\nПока пусто. !заметка, !настроение, !память")
		return sb.String()
	}
	mood := e.Mood
	if mood == "" {
		mood = "😊"
	}
	fmt.Fprintf(&sb, "Настроение: %s\n", mood)
	fmt.Fprintf(&sb, "\n📝 Заметки:\n%s\n", orDash(e.Notes))
	fmt.Fprintf(&sb, "\n✨ Памятное:\n%s", orDash(e.Memories))
	return sb.String()
}

// RenderMonth — аналитика месяца.
func RenderMonth(ms MonthSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s %d\n", common.MonthName(ms.Month), ms.Year)
	if ms.Days == 0 {
		sb.WriteString("Квестов в этом месяце не было")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Средний процент: %.0f%%\n", ms.AvgCompletion)
	fmt.Fprintf(&sb, "Квестов: %d из %d\n", ms.CompletedTasks, ms.TotalTasks)
	fmt.Fprintf(&sb, "Опыт: %s\n", common.FormatXP(ms.TotalPoints))
	fmt.Fprintf(&sb, "Активных дней: %d", ms.Days)
	if ms.BestDay != nil {
		fmt.Fprintf(&sb, "\nЛучший день: %s (%.0f%%)", ms.BestDay.Date.Format("02.01"), ms.BestDay.CompletionRate())
	}
	return sb.String()
}

// RenderYear — аналитика года помесячно.
func RenderYear(ys YearSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 %d год\n\n", ys.Year)
	for _, ms := range ys.Months {
		if ms.Days == 0 {
			fmt.Fprintf(&sb, "%s: —\n", common.MonthName(ms.Month))
			continue
		}
		fmt.Fprintf(&sb, "%s: %.0f%% · %d/%d · %s\n",
			common.MonthName(ms.Month), ms.AvgCompletion, ms.CompletedTasks, ms.TotalTasks, common.FormatXP(ms.TotalPoints))
	}
	fmt.Fprintf(&sb, "\nИтого: %d из %d, %s, активных дней: %d",
		ys.CompletedTasks, ys.TotalTasks, common.FormatXP(ys.TotalPoints), ys.ActiveDays)
	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func errorText(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrQuestNotFound),
		errors.Is(err, common.ErrInvalidQuestTitle),
		errors.Is(err, common.ErrInvalidQuestGoal),
		errors.Is(err, common.ErrUnknownDifficulty),
		errors.Is(err, common.ErrUnknownCategory):
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
