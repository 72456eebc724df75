package hydration

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

var msk = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic(err)
	}
	return loc
}()

func TestLogHydration_CrossesGoalAndExtendsStreak(t *testing.T) {
	today := time.Date(2026, 4, 10, 15, 0, 0, 0, msk)
	state := State{
		TodayTotalLitres:  1.5,
		DailyGoalLitres:   2.0,
		StreakDays:        3,
		LastAck:           ptr(today.Add(-2 * time.Hour)),
		LastGoalCompleted: ptr(today.AddDate(0, 0, -1)),
	}

	res := LogHydration(state, 0.6, today)
	assert.InDelta(t, 2.1, res.State.TodayTotalLitres, 1e-9)
	assert.True(t, res.GoalReached)
	assert.True(t, res.StreakAwarded)
	assert.False(t, res.DayReset)
	assert.Equal(t, 4, res.State.StreakDays)
	require.NotNil(t, res.State.LastGoalCompleted)
	assert.True(t, res.State.LastGoalCompleted.Equal(today))

	// Вход не изменился.
	assert.Equal(t, 3, state.StreakDays)
	assert.Equal(t, 1.5, state.TodayTotalLitres)
}

func TestLogHydration_SecondCallSameDayDoesNotReaward(t *testing.T) {
	today := time.Date(2026, 4, 10, 15, 0, 0, 0, msk)
	state := State{
		TodayTotalLitres:  1.5,
		DailyGoalLitres:   2.0,
		StreakDays:        3,
		LastAck:           ptr(today.Add(-time.Hour)),
		LastGoalCompleted: ptr(today.AddDate(0, 0, -1)),
	}

	first := LogHydration(state, 0.6, today)
	require.True(t, first.StreakAwarded)

	second := LogHydration(first.State, 0.3, today.Add(30*time.Minute))
	assert.False(t, second.StreakAwarded)
	assert.True(t, second.GoalReached)
	assert.Equal(t, 4, second.State.StreakDays)
	assert.InDelta(t, 2.4, second.State.TodayTotalLitres, 1e-9)
	assert.True(t, second.State.LastGoalCompleted.Equal(today))
}

func TestLogHydration_NewDayReset(t *testing.T) {
	today := time.Date(2026, 4, 10, 8, 0, 0, 0, msk)
	state := State{
		TodayTotalLitres: 1.8,
		DailyGoalLitres:  2.0,
		LastAck:          ptr(today.AddDate(0, 0, -1)),
	}

	res := LogHydration(state, 0.5, today)
	assert.True(t, res.DayReset)
	assert.InDelta(t, 0.5, res.State.TodayTotalLitres, 1e-9)
	assert.False(t, res.GoalReached)
	assert.False(t, res.StreakAwarded)
}

func TestLogHydration_FirstEverLog(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 0, 0, 0, msk)

	res := LogHydration(State{}, 2.5, now)
	assert.True(t, res.DayReset)
	assert.Equal(t, DefaultDailyGoalLitres, res.State.DailyGoalLitres)
	assert.True(t, res.StreakAwarded)
	assert.Equal(t, 1, res.State.StreakDays)
}

func TestLogHydration_ZeroIsSkip(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	earlier := now.Add(-3 * time.Hour)
	state := State{TodayTotalLitres: 1.0, DailyGoalLitres: 2.0, LastAck: ptr(earlier)}

	res := LogHydration(state, 0, now)
	assert.Equal(t, 1.0, res.State.TodayTotalLitres)
	require.NotNil(t, res.State.LastAck)
	assert.True(t, res.State.LastAck.Equal(now))
	assert.False(t, res.GoalReached)
	assert.False(t, res.StreakAwarded)
}

func TestLogHydration_ZeroAfterGoalMetYesterdayCountsToday(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	// Норма уже набрана сегодня, но стрик засчитан вчера: пропуск всё равно двигает стрик.
	state := State{
		TodayTotalLitres:  2.0,
		DailyGoalLitres:   2.0,
		StreakDays:        5,
		LastAck:           ptr(now.Add(-time.Hour)),
		LastGoalCompleted: ptr(now.AddDate(0, 0, -1)),
	}
	res := LogHydration(state, 0, now)
	assert.True(t, res.StreakAwarded)
	assert.Equal(t, 6, res.State.StreakDays)
}

func TestLogHydration_StreakBrokenOrSkewed(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	cases := map[string]time.Time{
		"gap":  now.AddDate(0, 0, -3),
		"skew": now.AddDate(0, 0, 2),
	}
	for name, last := range cases {
		t.Run(name, func(t *testing.T) {
			state := State{
				DailyGoalLitres:   2.0,
				StreakDays:        9,
				LastGoalCompleted: ptr(last),
			}
			res := LogHydration(state, 2.0, now)
			assert.True(t, res.StreakAwarded)
			assert.Equal(t, 1, res.State.StreakDays)
			assert.True(t, res.State.LastGoalCompleted.Equal(now))
		})
	}
}

func TestLogHydration_BadAmountsClampToZero(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	state := State{TodayTotalLitres: 1.0, DailyGoalLitres: 2.0, LastAck: ptr(now.Add(-time.Minute))}

	for _, amount := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		res := LogHydration(state, amount, now)
		assert.Equal(t, 1.0, res.State.TodayTotalLitres, "amount=%v", amount)
		assert.False(t, math.IsNaN(res.State.TodayTotalLitres))
	}
}

func TestCalendarDayDifference(t *testing.T) {
	base := time.Date(2026, 4, 10, 23, 59, 0, 0, msk)
	assert.Equal(t, 0, CalendarDayDifference(base, base))
	assert.Equal(t, 1, CalendarDayDifference(base, base.Add(2*time.Minute)))
	assert.Equal(t, -1, CalendarDayDifference(base.Add(2*time.Minute), base))
	assert.Equal(t, 0, CalendarDayDifference(time.Date(2026, 4, 10, 0, 0, 0, 0, msk), base))

	// Дни считаются в зоне второго аргумента.
	utcEvening := time.Date(2026, 4, 9, 22, 30, 0, 0, time.UTC) // 01:30 10 апреля по Москве
	assert.Equal(t, 0, CalendarDayDifference(utcEvening, base))
}

func TestCalendarDayDifference_DST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	// 29 марта 2026 длится 23 часа.
	before := time.Date(2026, 3, 28, 12, 0, 0, 0, berlin)
	after := time.Date(2026, 3, 30, 0, 30, 0, 0, berlin)
	assert.Equal(t, 2, CalendarDayDifference(before, after))

	// 25 октября 2026 длится 25 часов.
	autumn := time.Date(2026, 10, 25, 0, 10, 0, 0, berlin)
	assert.Equal(t, 0, CalendarDayDifference(autumn, autumn.Add(24*time.Hour)))
}

func TestEffectiveToday(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	assert.Equal(t, 0.0, EffectiveToday(State{TodayTotalLitres: 1.2}, now))
	assert.Equal(t, 0.0, EffectiveToday(State{TodayTotalLitres: 1.2, LastAck: ptr(now.AddDate(0, 0, -1))}, now))
	assert.Equal(t, 1.2, EffectiveToday(State{TodayTotalLitres: 1.2, LastAck: ptr(now.Add(-time.Hour))}, now))
}

func TestStreakAlive(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	assert.False(t, StreakAlive(State{}, now))
	assert.True(t, StreakAlive(State{StreakDays: 2, LastGoalCompleted: ptr(now.AddDate(0, 0, -1))}, now))
	assert.False(t, StreakAlive(State{StreakDays: 2, LastGoalCompleted: ptr(now.AddDate(0, 0, -2))}, now))
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, msk)
	interval := 30 * time.Minute

	assert.True(t, ReminderDue(State{DailyGoalLitres: 2}, now, interval))
	assert.False(t, ReminderDue(State{DailyGoalLitres: 2, LastAck: ptr(now.Add(-10 * time.Minute))}, now, interval))
	assert.True(t, ReminderDue(State{DailyGoalLitres: 2, LastAck: ptr(now.Add(-30 * time.Minute))}, now, interval))

	done := State{DailyGoalLitres: 2, TodayTotalLitres: 2.5, LastAck: ptr(now.Add(-2 * time.Hour))}
	assert.False(t, ReminderDue(done, now, interval))

	// Вчерашняя норма не считается.
	yesterday := State{DailyGoalLitres: 2, TodayTotalLitres: 2.5, LastAck: ptr(now.AddDate(0, 0, -1))}
	assert.True(t, ReminderDue(yesterday, now, interval))
}
