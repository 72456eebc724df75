// Package quests — service.go содержит бизнес-логику квестов:
// создание, прогресс, отметка, начисление опыта и дневник.
package quests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

// Store — хранилище квестов и дневника. Реализуется Repository.
type Store interface {
	Create(ctx context.Context, q *Quest) error
	ListByDate(ctx context.Context, userID int64, date time.Time) ([]*Quest, error)
	Mutate(ctx context.Context, userID int64, date time.Time, index int, fn func(q *Quest) error) (*Quest, []*Quest, error)
	DeleteByIndex(ctx context.Context, userID int64, date time.Time, index int) (*Quest, error)
	DaySummaries(ctx context.Context, userID int64, from, to time.Time) ([]DaySummary, error)
	UpsertJournal(ctx context.Context, userID int64, date time.Time, field JournalField, value string) (*DailyEntry, error)
	GetJournal(ctx context.Context, userID int64, date time.Time) (*DailyEntry, error)
}

// XPAwarder начисляет опыт. Реализуется character.Service.
type XPAwarder interface {
	AwardXP(ctx context.Context, userID int64, points int64, source, description string) (character.AwardResult, error)
}

// maxJournalRunes — лимит длины одного поля дневника.
const maxJournalRunes = 2000

// Service управляет квестами.
type Service struct {
	store Store
	xp    XPAwarder
	clock *common.Clock
}

// NewService создаёт сервис квестов.
func NewService(store Store, xp XPAwarder, clock *common.Clock) *Service {
	return &Service{store: store, xp: xp, clock: clock}
}

// Create добавляет квест на сегодня. Цена фиксируется сразу.
func (s *Service) Create(ctx context.Context, userID int64, in NewQuestInput) (*Quest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	q := &Quest{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      in.Title,
		Difficulty: in.Difficulty,
		Goal:       in.Goal,
		Points:     in.Price(),
		Category:   in.Category,
		Date:       s.clock.Today(),
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"quest_id":   q.ID,
		"difficulty": q.Difficulty,
		"points":     q.Points,
	}).Info("Квест создан")
	return q, nil
}

// Today возвращает сводку текущего дня.
func (s *Service) Today(ctx context.Context, userID int64) (*DailyQuest, error) {
	now := s.clock.Now()
	quests, err := s.store.ListByDate(ctx, userID, common.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	return BuildDailyQuest(quests, now), nil
}

// SetProgress выставляет прогресс квеста номер index.
func (s *Service) SetProgress(ctx context.Context, userID int64, index, progress int) (*ToggleResult, error) {
	return s.mutate(ctx, userID, index, func(q *Quest) bool {
		return ApplyProgress(q, progress)
	})
}

// Toggle переключает выполнение квеста номер index.
func (s *Service) Toggle(ctx context.Context, userID int64, index int) (*ToggleResult, error) {
	return s.mutate(ctx, userID, index, ApplyToggle)
}

// mutate применяет изменение и начисляет опыт, если квест выполнен впервые.
// Повторное выполнение после снятия отметки опыт не даёт.
func (s *Service) mutate(ctx context.Context, userID int64, index int, apply func(q *Quest) bool) (*ToggleResult, error) {
	now := s.clock.Now()
	var reward bool
	q, day, err := s.store.Mutate(ctx, userID, common.StartOfDay(now), index, func(q *Quest) error {
		justDone := apply(q)
		reward = justDone && !q.Rewarded
		if reward {
			q.Rewarded = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &ToggleResult{Quest: q, JustDone: reward, DailyQuest: BuildDailyQuest(day, now)}
	if reward && q.Points > 0 {
		award, err := s.xp.AwardXP(ctx, userID, q.Points, character.SourceQuestComplete, q.Title)
		if err != nil {
			return nil, fmt.Errorf("квест выполнен, но опыт не начислен: %w", err)
		}
		res.Award = &award
	}
	return res, nil
}

// Delete удаляет квест номер index. Начисленный опыт не списывается.
func (s *Service) Delete(ctx context.Context, userID int64, index int) (*Quest, error) {
	return s.store.DeleteByIndex(ctx, userID, s.clock.Today(), index)
}

// WriteJournal обновляет поле дневника за сегодня.
func (s *Service) WriteJournal(ctx context.Context, userID int64, field JournalField, value string) (*DailyEntry, error) {
	r := []rune(value)
	if len(r) > maxJournalRunes {
		value = string(r[:maxJournalRunes])
	}
	return s.store.UpsertJournal(ctx, userID, s.clock.Today(), field, value)
}

// Journal возвращает дневник за сегодня (nil, если пусто).
func (s *Service) Journal(ctx context.Context, userID int64) (*DailyEntry, error) {
	return s.store.GetJournal(ctx, userID, s.clock.Today())
}

// Month возвращает аналитику месяца.
func (s *Service) Month(ctx context.Context, userID int64, year int, month time.Month) (MonthSummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.clock.Location())
	to := from.AddDate(0, 1, -1)
	days, err := s.store.DaySummaries(ctx, userID, from, to)
	if err != nil {
		return MonthSummary{}, err
	}
	return SummarizeMonth(year, month, days), nil
}

// Year возвращает аналитику года.
func (s *Service) Year(ctx context.Context, userID int64, year int) (YearSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.clock.Location())
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, s.clock.Location())
	days, err := s.store.DaySummaries(ctx, userID, from, to)
	if err != nil {
		return YearSummary{}, err
	}
	return SummarizeYear(year, days), nil
}

// Now — текущее время сервиса.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
