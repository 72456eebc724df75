// Package hydration — учёт выпитой воды и стрик дневной нормы.
// tracker.go — чистая логика: без БД и без часов, время передаётся параметром.
package hydration

import (
	"math"
	"time"
)

const (
	// DefaultDailyGoalLitres — дневная норма по умолчанию
	DefaultDailyGoalLitres = 2.0
	// StreakBonusPoints — опыт за выполнение нормы (начисляет вызывающий)
	StreakBonusPoints int64 = 10
)

// State — снимок гидратации пользователя.
type State struct {
	TodayTotalLitres  float64
	DailyGoalLitres   float64
	StreakDays        int
	LastAck           *time.Time // Последняя отметка (глоток или пропуск)
	LastGoalCompleted *time.Time // Когда в последний раз выполнена норма
}

// Result — итог одной отметки.
type Result struct {
	State         State
	StreakAwarded bool // Стрик вырос или начался заново: начислить бонус
	GoalReached   bool // Норма на сегодня выполнена (в том числе раньше)
	DayReset      bool // Счётчик дня сброшен перед добавлением
}

// LogHydration применяет отметку amount литров в момент now.
//
//  1. Новый день (нет отметок или последняя в другой календарный день) → счётчик дня = 0.
//  2. Прибавляем amount (отрицательные, NaN и Inf считаются нулём).
//  3. LastAck = now.
//  4. Если норма выполнена, двигаем стрик: первый раз → 1, тот же день → ничего,
//     вчера → +1, иначе → 1.
func LogHydration(state State, amount float64, now time.Time) Result {
	next := state
	if next.DailyGoalLitres <= 0 || math.IsNaN(next.DailyGoalLitres) || math.IsInf(next.DailyGoalLitres, 0) {
		next.DailyGoalLitres = DefaultDailyGoalLitres
	}

	res := Result{}
	if next.LastAck == nil || CalendarDayDifference(*next.LastAck, now) != 0 {
		next.TodayTotalLitres = 0
		res.DayReset = true
	}

	if amount > 0 && !math.IsInf(amount, 1) {
		next.TodayTotalLitres += amount
	}

	ack := now
	next.LastAck = &ack

	if next.TodayTotalLitres >= next.DailyGoalLitres {
		res.GoalReached = true
		res.StreakAwarded = advanceStreak(&next, now)
	}

	res.State = next
	return res
}

// advanceStreak двигает стрик после выполнения нормы. Возвращает true,
// если стрик изменился (и полагается бонус).
func advanceStreak(s *State, now time.Time) bool {
	if s.LastGoalCompleted == nil {
		s.StreakDays = 1
	} else {
		switch CalendarDayDifference(*s.LastGoalCompleted, now) {
		case 0:
			return false
		case 1:
			s.StreakDays++
		default:
			s.StreakDays = 1
		}
	}
	done := now
	s.LastGoalCompleted = &done
	return true
}

// CalendarDayDifference — сколько полуночей между from и to в часовом поясе to.
// Не зависит от перехода на летнее время: считаются календарные даты.
func CalendarDayDifference(from, to time.Time) int {
	loc := to.Location()
	f := from.In(loc)
	a := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// EffectiveToday — сколько выпито сегодня с учётом того,
// что вчерашний счётчик ещё не сброшен в БД.
func EffectiveToday(state State, now time.Time) float64 {
	if state.LastAck == nil || CalendarDayDifference(*state.LastAck, now) != 0 {
		return 0
	}
	return state.TodayTotalLitres
}

// StreakAlive — стрик ещё не прерван: норма выполнена сегодня или вчера.
func StreakAlive(state State, now time.Time) bool {
	if state.LastGoalCompleted == nil || state.StreakDays == 0 {
		return false
	}
	d := CalendarDayDifference(*state.LastGoalCompleted, now)
	return d == 0 || d == 1
}

// ReminderDue — пора ли напомнить о воде: отметок не было
// или последняя старше interval. Если норма сегодня выполнена — не напоминаем.
func ReminderDue(state State, now time.Time, interval time.Duration) bool {
	goal := state.DailyGoalLitres
	if goal <= 0 {
		goal = DefaultDailyGoalLitres
	}
	if EffectiveToday(state, now) >= goal {
		return false
	}
	if state.LastAck == nil {
		return true
	}
	return now.Sub(*state.LastAck) >= interval
}
