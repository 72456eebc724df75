// Package character — service.go содержит бизнес-логику профиля:
// создание героя, настройки и начисление опыта.
package character

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// Store — хранилище профилей. Реализуется Repository, в тестах — фейком.
type Store interface {
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
	UpdateCharacter(ctx context.Context, userID int64, c Character) error
	UpdatePersonality(ctx context.Context, userID int64, p quotes.Personality) error
	UpdateNotifications(ctx context.Context, userID int64, enabled bool) error
	ApplyXP(ctx context.Context, userID int64, source, description string, apply func(Progression) AwardResult) (AwardResult, error)
	RecentXPEvents(ctx context.Context, userID int64, limit int) ([]*XPEvent, error)
	ListNotifiable(ctx context.Context) ([]*Profile, error)
}

// Service управляет профилями игроков.
type Service struct {
	store Store
}

// NewService создаёт сервис профилей.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// EnsureProfile создаёт профиль при первом сообщении или обновляет username.
func (s *Service) EnsureProfile(ctx context.Context, userID int64, username, firstName string) (*Profile, error) {
	p, err := s.store.Upsert(ctx, DefaultProfile(userID, username, firstName))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile возвращает профиль игрока.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.store.GetByUserID(ctx, userID)
}

// CreateCharacter проверяет и сохраняет героя.
// Имя: 1..32 символа после обрезки пробелов.
func (s *Service) CreateCharacter(ctx context.Context, userID int64, name string, avatar Avatar, theme Theme) (*Character, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxCharacterNameRunes {
		return nil, common.ErrInvalidCharacterName
	}
	if _, ok := avatarTitles[avatar]; !ok {
		return nil, common.ErrUnknownAvatar
	}
	if _, ok := ParseTheme(string(theme)); !ok {
		return nil, common.ErrUnknownTheme
	}

	c := Character{Name: name, Avatar: avatar, Theme: theme}
	if err := s.store.UpdateCharacter(ctx, userID, c); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"name":    name,
		"avatar":  avatar,
	}).Info("Герой создан")
	return &c, nil
}

// SetPersonality меняет набор цитат дня.
func (s *Service) SetPersonality(ctx context.Context, userID int64, raw string) (quotes.Personality, error) {
	p, ok := quotes.ParsePersonality(raw)
	if !ok {
		return "", common.ErrUnknownPersonality
	}
	if err := s.store.UpdatePersonality(ctx, userID, p); err != nil {
		return "", err
	}
	return p, nil
}

// SetNotifications включает или выключает напоминания и утренние цитаты.
func (s *Service) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	return s.store.UpdateNotifications(ctx, userID, enabled)
}

// AwardXP начисляет опыт игроку и пересчитывает уровень и ранг.
// source — тип начисления (quest_complete, hydration_streak).
func (s *Service) AwardXP(ctx context.Context, userID int64, points int64, source, description string) (AwardResult, error) {
	if points <= 0 {
		return AwardResult{}, common.ErrInvalidPoints
	}

	res, err := s.store.ApplyXP(ctx, userID, source, description, func(p Progression) AwardResult {
		return p.Award(points)
	})
	if err != nil {
		return AwardResult{}, fmt.Errorf("начисление опыта (user_id=%d): %w", userID, err)
	}

	entry := log.WithFields(log.Fields{
		"user_id": userID,
		"points":  res.Points,
		"source":  source,
		"total":   res.After.TotalPoints,
	})
	if res.LeveledUp {
		entry.WithField("level", res.After.Level).Info("Новый уровень")
	} else {
		entry.Debug("Опыт начислен")
	}
	return res, nil
}

// RecentXP возвращает последние начисления опыта.
func (s *Service) RecentXP(ctx context.Context, userID int64, limit int) ([]*XPEvent, error) {
	return s.store.RecentXPEvents(ctx, userID, limit)
}

// ListNotifiable возвращает игроков с включёнными уведомлениями.
func (s *Service) ListNotifiable(ctx context.Context) ([]*Profile, error) {
	return s.store.ListNotifiable(ctx)
}
