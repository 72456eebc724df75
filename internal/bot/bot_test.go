package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/config"
	"serotonyl.ru/quest-bot/internal/features/character"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendText(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// profileStore реализует только Upsert: остальные методы в этих тестах не вызываются.
type profileStore struct {
	character.Store
	upserts int
	err     error
}

func (s *profileStore) Upsert(_ context.Context, p *character.Profile) (*character.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts++
	return p, nil
}

func newTestBot(t *testing.T, hydration bool) (*Bot, *fakeSender, *profileStore) {
	t.Helper()
	cfg := &config.Config{
		BotMaxInflight:          4,
		BotUpdateTimeoutSeconds: 1,
		RateLimitRequests:       3,
		RateLimitWindow:         time.Minute,
		FeatureHydrationEnabled: hydration,
		FeatureQuotesEnabled:    true,
	}
	store := &profileStore{}
	svc := character.NewService(store)
	sender := &fakeSender{}
	clock := common.NewFixedClock(time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC))
	b := New(nil, cfg, sender, svc, character.NewHandler(svc, sender, clock), nil, nil)
	t.Cleanup(b.rateLimiter.Close)
	return b, sender, store
}

func privateUpdate(userID int64, text string) telego.Update {
	return telego.Update{Message: &telego.Message{
		From: &telego.User{ID: userID, FirstName: "Ivan", Username: "ivan"},
		Chat: telego.Chat{ID: userID, Type: telego.ChatTypePrivate},
		Text: text,
	}}
}

func TestHandleUpdate_Start(t *testing.T) {
	b, sender, store := newTestBot(t, true)

	b.handleUpdate(context.Background(), privateUpdate(1, "/start"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Привет, @ivan")
	assert.Contains(t, sent[0], "!квест")
	assert.Equal(t, 1, store.upserts)
}

func TestHandleUpdate_IgnoresGroups(t *testing.T) {
	b, sender, store := newTestBot(t, true)

	upd := privateUpdate(1, "!профиль")
	upd.Message.Chat = telego.Chat{ID: -100, Type: telego.ChatTypeGroup}
	b.handleUpdate(context.Background(), upd)

	assert.Empty(t, sender.all())
	assert.Equal(t, 0, store.upserts)
}

func TestHandleUpdate_NotCommandAndUnknown(t *testing.T) {
	b, sender, _ := newTestBot(t, true)
	ctx := context.Background()

	b.handleUpdate(ctx, privateUpdate(1, "привет"))
	b.handleUpdate(ctx, privateUpdate(1, "!телепорт"))

	sent := sender.all()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0], "Не понял")
	assert.Contains(t, sent[1], "Неизвестная команда")
}

func TestHandleUpdate_HydrationDisabled(t *testing.T) {
	b, sender, _ := newTestBot(t, false)

	b.handleUpdate(context.Background(), privateUpdate(1, "!вода 0.5"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "отключён")
}

func TestHandleUpdate_Levels(t *testing.T) {
	b, sender, _ := newTestBot(t, true)

	b.handleUpdate(context.Background(), privateUpdate(1, ".уровни"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Пороги уровней")
}

func TestHandleUpdate_RateLimited(t *testing.T) {
	b, sender, _ := newTestBot(t, true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		b.handleUpdate(ctx, privateUpdate(1, "/help"))
	}
	assert.Len(t, sender.all(), 3)
}

func TestHandleUpdate_ProfileFailure(t *testing.T) {
	b, sender, store := newTestBot(t, true)
	store.err = errors.New("db down")

	b.handleUpdate(context.Background(), privateUpdate(1, "/help"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Не удалось загрузить профиль")
}
