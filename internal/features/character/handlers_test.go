package character

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].text
}

func newTestHandler(t *testing.T) (*Handler, *memStore, *fakeSender) {
	t.Helper()
	store := newMemStore()
	svc := NewService(store)
	_, err := svc.EnsureProfile(context.Background(), 1, "hunter", "Ivan")
	require.NoError(t, err)
	sender := &fakeSender{}
	clock := common.NewFixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewHandler(svc, sender, clock), store, sender
}

func TestHandleCreateHero_MultiWordNameAndTheme(t *testing.T) {
	h, store, sender := newTestHandler(t)

	h.HandleCreateHero(context.Background(), 100, 1, []string{"Тёмный", "рыцарь", "Артур", "рыцарь", "золотой"})

	c := store.profiles[1].Character
	assert.Equal(t, "Тёмный рыцарь Артур", c.Name)
	assert.Equal(t, AvatarKnight, c.Avatar)
	assert.Equal(t, ThemeGold, c.Theme)
	assert.Contains(t, sender.last(), "Герой создан")
}

func TestHandleCreateHero_DefaultTheme(t *testing.T) {
	h, store, _ := newTestHandler(t)

	h.HandleCreateHero(context.Background(), 100, 1, []string{"Мерлин", "маг"})

	c := store.profiles[1].Character
	assert.Equal(t, "Мерлин", c.Name)
	assert.Equal(t, AvatarMage, c.Avatar)
	assert.Equal(t, ThemeBlue, c.Theme)
}

func TestHandleCreateHero_Errors(t *testing.T) {
	h, store, sender := newTestHandler(t)

	h.HandleCreateHero(context.Background(), 100, 1, []string{"Мерлин"})
	assert.Contains(t, sender.last(), "Формат")

	h.HandleCreateHero(context.Background(), 100, 1, []string{"Мерлин", "пират"})
	assert.Contains(t, sender.last(), "Неизвестный класс")

	assert.False(t, store.profiles[1].CharacterCreated)
}

func TestHandleNotifications(t *testing.T) {
	h, store, sender := newTestHandler(t)

	h.HandleNotifications(context.Background(), 100, 1, []string{"выкл"})
	assert.False(t, store.profiles[1].Preferences.Notifications)
	assert.Contains(t, sender.last(), "выключены")

	h.HandleNotifications(context.Background(), 100, 1, []string{"может"})
	assert.Contains(t, sender.last(), "Формат")
}

func TestRenderProfile(t *testing.T) {
	p := DefaultProfile(1, "hunter", "Ivan")
	p.Progression = NewProgression(1200)

	text := RenderProfile(p)
	assert.Contains(t, text, "@hunter")
	assert.Contains(t, text, "Ранг D")
	assert.Contains(t, text, "Уровень 5")
	assert.Contains(t, text, "До 6 уровня: 800 XP")
	assert.Contains(t, text, "До ранга C: 3 800 XP")
	assert.Contains(t, text, "!герой")
}

func TestRenderLevelsTable(t *testing.T) {
	text := RenderLevelsTable(11)
	assert.Contains(t, text, " 2 · 100 XP")
	assert.Contains(t, text, "10 · 11 000 XP")
	assert.Contains(t, text, "11 · 16 500 XP")
}

func TestHandleQuote_UsesProfilePersonality(t *testing.T) {
	h, _, sender := newTestHandler(t)
	ctx := context.Background()

	_, err := h.service.SetPersonality(ctx, 1, "fitness")
	require.NoError(t, err)

	h.HandleQuote(ctx, 100, 1)
	assert.Equal(t, "💬 "+quotes.DailyQuote(quotes.PersonalityFitness, h.clock.Now()), sender.last())
}

func TestHandleHistory(t *testing.T) {
	h, _, sender := newTestHandler(t)
	ctx := context.Background()

	h.HandleHistory(ctx, 100, 1)
	assert.Contains(t, sender.last(), "Опыта пока нет")

	_, err := h.service.AwardXP(ctx, 1, 50, SourceQuestComplete, "Пробежка")
	require.NoError(t, err)
	_, err = h.service.AwardXP(ctx, 1, 10, SourceHydrationStreak, "Норма воды, день 1")
	require.NoError(t, err)

	h.HandleHistory(ctx, 100, 1)
	text := sender.last()
	assert.Contains(t, text, "Последние начисления (2)")
	assert.Contains(t, text, "1. 💧")
	assert.Contains(t, text, "+10 XP | Норма воды, день 1")
	assert.Contains(t, text, "2. ⚔️")
	assert.Contains(t, text, "+50 XP | Пробежка")
}

func TestRenderHistory_TimezoneAndUnknownSource(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	events := []*XPEvent{{
		Points: 5, Source: "bonus", Description: "Подарок",
		CreatedAt: time.Date(2026, 4, 9, 21, 30, 0, 0, time.UTC),
	}}
	assert.Equal(t, "📋 Последние начисления (1):\n\n1. ✨ 10.04 00:30 | +5 XP | Подарок", RenderHistory(events, loc))
}
