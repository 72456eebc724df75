// Package hydration — service.go связывает чистый трекер с БД,
// начислением опыта и отсрочкой напоминаний.
package hydration

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

// Store — хранилище гидратации. Реализуется Repository.
type Store interface {
	Get(ctx context.Context, userID int64, defaultGoal float64) (*Record, error)
	Update(ctx context.Context, userID int64, defaultGoal float64, fn func(rec *Record) error) (*Record, error)
	ListReminderCandidates(ctx context.Context, defaultGoal float64) ([]*Record, error)
}

// XPAwarder начисляет опыт. Реализуется character.Service.
type XPAwarder interface {
	AwardXP(ctx context.Context, userID int64, points int64, source, description string) (character.AwardResult, error)
}

// Options — настройки сервиса из конфига.
type Options struct {
	DefaultGoalLitres float64
	RemindInterval    time.Duration
	StreakBonus       int64
}

// Service управляет гидратацией.
type Service struct {
	store   Store
	xp      XPAwarder
	snoozer Snoozer
	clock   *common.Clock
	opts    Options
}

// NewService создаёт сервис гидратации.
func NewService(store Store, xp XPAwarder, snoozer Snoozer, clock *common.Clock, opts Options) *Service {
	if opts.DefaultGoalLitres <= 0 {
		opts.DefaultGoalLitres = DefaultDailyGoalLitres
	}
	if opts.RemindInterval <= 0 {
		opts.RemindInterval = 30 * time.Minute
	}
	if opts.StreakBonus < 0 {
		opts.StreakBonus = 0
	}
	return &Service{store: store, xp: xp, snoozer: snoozer, clock: clock, opts: opts}
}

// Log записывает выпитое. amount — литры, 0..5.
// Бонус за стрик начисляется после фиксации записи о воде.
func (s *Service) Log(ctx context.Context, userID int64, amount float64) (*LogOutcome, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 || amount > MaxLogLitres {
		return nil, common.ErrInvalidHydrationAmount
	}

	now := s.clock.Now()
	var res Result
	rec, err := s.store.Update(ctx, userID, s.opts.DefaultGoalLitres, func(rec *Record) error {
		res = LogHydration(rec.State, amount, now)
		rec.State = res.State
		if rec.State.StreakDays > rec.LongestStreak {
			rec.LongestStreak = rec.State.StreakDays
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &LogOutcome{Result: res, LongestStreak: rec.LongestStreak}

	// Отметка сбрасывает таймер напоминания
	if err := s.snoozer.Release(ctx, snoozeKey(userID)); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось снять отсрочку напоминания")
	}

	if res.StreakAwarded && s.opts.StreakBonus > 0 {
		award, err := s.xp.AwardXP(ctx, userID, s.opts.StreakBonus, character.SourceHydrationStreak,
			fmt.Sprintf("Норма воды, день %d", res.State.StreakDays))
		if err != nil {
			// Вода уже записана, бонус не критичен
			log.WithError(err).WithField("user_id", userID).Error("Ошибка начисления бонуса за воду")
		} else {
			out.BonusPoints = award.Points
			out.LeveledUp = award.LeveledUp
			out.NewLevel = award.After.Level
		}
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"today":   res.State.TodayTotalLitres,
		"streak":  res.State.StreakDays,
		"awarded": res.StreakAwarded,
	}).Debug("Вода записана")
	return out, nil
}

// Skip отмечает напоминание без воды.
func (s *Service) Skip(ctx context.Context, userID int64) (*LogOutcome, error) {
	return s.Log(ctx, userID, 0)
}

// SetGoal меняет дневную норму. Допустимо 0.5..10 л.
func (s *Service) SetGoal(ctx context.Context, userID int64, litres float64) (*Record, error) {
	if math.IsNaN(litres) || litres < MinGoalLitres || litres > MaxGoalLitres {
		return nil, common.ErrInvalidHydrationGoal
	}
	return s.store.Update(ctx, userID, s.opts.DefaultGoalLitres, func(rec *Record) error {
		rec.State.DailyGoalLitres = litres
		return nil
	})
}

// Status возвращает текущее состояние.
func (s *Service) Status(ctx context.Context, userID int64) (*Record, error) {
	return s.store.Get(ctx, userID, s.opts.DefaultGoalLitres)
}

// Now — текущее время сервиса.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// DueReminders выбирает, кому пора напомнить, и ставит отсрочку на интервал.
// Пользователь, для которого отсрочка уже стоит, пропускается.
func (s *Service) DueReminders(ctx context.Context) ([]Reminder, error) {
	candidates, err := s.store.ListReminderCandidates(ctx, s.opts.DefaultGoalLitres)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var out []Reminder
	for _, rec := range candidates {
		if !ReminderDue(rec.State, now, s.opts.RemindInterval) {
			continue
		}
		claimed, err := s.snoozer.Claim(ctx, snoozeKey(rec.UserID), s.opts.RemindInterval)
		if err != nil {
			log.WithError(err).WithField("user_id", rec.UserID).Warn("Ошибка отсрочки напоминания")
			continue
		}
		if !claimed {
			continue
		}
		out = append(out, Reminder{UserID: rec.UserID, State: rec.State})
	}
	return out, nil
}

func snoozeKey(userID int64) string {
	return "hydration:" + strconv.FormatInt(userID, 10)
}
