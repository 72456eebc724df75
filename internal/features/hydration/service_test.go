package hydration

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

type memStore struct {
	mu         sync.Mutex
	records    map[int64]*Record
	notifiable map[int64]bool
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64]*Record), notifiable: make(map[int64]bool)}
}

func (m *memStore) Get(_ context.Context, userID int64, defaultGoal float64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[userID]; ok {
		cp := *r
		return &cp, nil
	}
	return &Record{UserID: userID, State: State{DailyGoalLitres: defaultGoal}}, nil
}

func (m *memStore) Update(_ context.Context, userID int64, defaultGoal float64, fn func(rec *Record) error) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[userID]
	if !ok {
		cur = &Record{UserID: userID, State: State{DailyGoalLitres: defaultGoal}}
	}
	cp := *cur
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.UpdatedAt = time.Now()
	m.records[userID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) ListReminderCandidates(_ context.Context, defaultGoal float64) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Record
	for id, on := range m.notifiable {
		if !on {
			continue
		}
		if r, ok := m.records[id]; ok {
			cp := *r
			out = append(out, &cp)
		} else {
			out = append(out, &Record{UserID: id, State: State{DailyGoalLitres: defaultGoal}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeAwarder struct {
	mu     sync.Mutex
	awards []int64
	total  int64
	err    error
}

func (f *fakeAwarder) AwardXP(_ context.Context, userID int64, points int64, source, description string) (character.AwardResult, error) {
	if f.err != nil {
		return character.AwardResult{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := character.NewProgression(f.total).Award(points)
	f.total = res.After.TotalPoints
	f.awards = append(f.awards, points)
	return res, nil
}

func newTestService(t *testing.T, start time.Time) (*Service, *memStore, *fakeAwarder) {
	t.Helper()
	store := newMemStore()
	xp := &fakeAwarder{}
	svc := NewService(store, xp, NewMemorySnoozer(), common.NewFixedClock(start), Options{
		DefaultGoalLitres: 2.0,
		RemindInterval:    30 * time.Minute,
		StreakBonus:       StreakBonusPoints,
	})
	return svc, store, xp
}

// at переставляет часы сервиса.
func at(svc *Service, t time.Time) {
	svc.clock = common.NewFixedClock(t)
}

func TestServiceLog_StreakBonusAwardedOncePerDay(t *testing.T) {
	day1 := time.Date(2026, 4, 9, 10, 0, 0, 0, msk)
	svc, store, xp := newTestService(t, day1)
	ctx := context.Background()

	out, err := svc.Log(ctx, 1, 1.0)
	require.NoError(t, err)
	assert.False(t, out.StreakAwarded)

	at(svc, day1.Add(2*time.Hour))
	out, err = svc.Log(ctx, 1, 1.0)
	require.NoError(t, err)
	assert.True(t, out.StreakAwarded)
	assert.Equal(t, StreakBonusPoints, out.BonusPoints)
	assert.Equal(t, 1, out.State.StreakDays)

	at(svc, day1.Add(3*time.Hour))
	out, err = svc.Log(ctx, 1, 0.5)
	require.NoError(t, err)
	assert.False(t, out.StreakAwarded)
	assert.Equal(t, int64(0), out.BonusPoints)

	// Следующий день: стрик растёт.
	at(svc, day1.AddDate(0, 0, 1))
	out, err = svc.Log(ctx, 1, 2.0)
	require.NoError(t, err)
	assert.True(t, out.DayReset)
	assert.True(t, out.StreakAwarded)
	assert.Equal(t, 2, out.State.StreakDays)
	assert.Equal(t, 2, out.LongestStreak)

	assert.Equal(t, []int64{10, 10}, xp.awards)
	assert.Equal(t, 2, store.records[1].LongestStreak)
}

func TestServiceLog_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2026, 4, 9, 10, 0, 0, 0, msk))
	ctx := context.Background()

	for _, v := range []float64{-0.1, 5.01, math.NaN(), math.Inf(1)} {
		_, err := svc.Log(ctx, 1, v)
		assert.ErrorIs(t, err, common.ErrInvalidHydrationAmount, "amount=%v", v)
	}

	_, err := svc.Log(ctx, 1, 5.0)
	assert.NoError(t, err)
}

func TestServiceLog_BonusFailureKeepsWater(t *testing.T) {
	svc, store, xp := newTestService(t, time.Date(2026, 4, 9, 10, 0, 0, 0, msk))
	xp.err = errors.New("db down")

	out, err := svc.Log(context.Background(), 1, 2.0)
	require.NoError(t, err)
	assert.True(t, out.StreakAwarded)
	assert.Equal(t, int64(0), out.BonusPoints)
	assert.Equal(t, 2.0, store.records[1].State.TodayTotalLitres)
}

func TestServiceSkip(t *testing.T) {
	now := time.Date(2026, 4, 9, 10, 0, 0, 0, msk)
	svc, store, _ := newTestService(t, now)

	out, err := svc.Skip(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.State.TodayTotalLitres)
	require.NotNil(t, store.records[1].State.LastAck)
	assert.True(t, store.records[1].State.LastAck.Equal(now))
}

func TestServiceSetGoal(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2026, 4, 9, 10, 0, 0, 0, msk))
	ctx := context.Background()

	rec, err := svc.SetGoal(ctx, 1, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.State.DailyGoalLitres)

	_, err = svc.SetGoal(ctx, 1, 0.4)
	assert.ErrorIs(t, err, common.ErrInvalidHydrationGoal)
	_, err = svc.SetGoal(ctx, 1, 10.5)
	assert.ErrorIs(t, err, common.ErrInvalidHydrationGoal)

	// Новая норма учитывается при следующей отметке.
	out, err := svc.Log(ctx, 1, 2.5)
	require.NoError(t, err)
	assert.False(t, out.GoalReached)
}

func TestServiceDueReminders(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, msk)
	svc, store, _ := newTestService(t, now)
	ctx := context.Background()

	store.notifiable[1] = true // никогда не пил
	store.notifiable[2] = true // пил 10 минут назад
	store.notifiable[3] = true // норма выполнена
	store.notifiable[4] = false

	at(svc, now.Add(-10*time.Minute))
	_, err := svc.Log(ctx, 2, 0.3)
	require.NoError(t, err)
	_, err = svc.Log(ctx, 3, 2.0)
	require.NoError(t, err)
	at(svc, now)

	due, err := svc.DueReminders(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(1), due[0].UserID)

	// Повторный проход в тот же интервал ничего не шлёт.
	due, err = svc.DueReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Через 30 минут напоминаем обоим, кто не выполнил норму.
	// Отсрочка живёт по реальным часам, поэтому вместо ожидания TTL берём новое хранилище.
	at(svc, now.Add(31*time.Minute))
	svc.snoozer = NewMemorySnoozer()
	due, err = svc.DueReminders(ctx)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(1), due[0].UserID)
	assert.Equal(t, int64(2), due[1].UserID)
}

func TestMemorySnoozer(t *testing.T) {
	s := NewMemorySnoozer()
	base := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	ctx := context.Background()

	ok, err := s.Claim(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.Claim(ctx, "a", time.Minute)
	assert.False(t, ok)

	s.now = func() time.Time { return base.Add(time.Minute) }
	ok, _ = s.Claim(ctx, "a", time.Minute)
	assert.True(t, ok)

	require.NoError(t, s.Release(ctx, "a"))
	ok, _ = s.Claim(ctx, "a", time.Minute)
	assert.True(t, ok)
}
