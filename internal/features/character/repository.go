// Package character — repository.go отвечает за таблицы profiles и xp_events.
// Начисление опыта выполняется в транзакции с блокировкой строки профиля.
package character

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// Repository предоставляет методы для работы с профилями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий профилей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const profileColumns = `
	id, user_id, username, first_name,
	character_name, avatar, theme,
	total_xp, level, rank,
	notifications, sound_effects, penalties, dark_mode,
	personality, character_created, created_at, updated_at
`

// rowScanner — общий интерфейс pgx.Row и pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p           Profile
		avatar      string
		theme       string
		rank        string
		personality string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Username, &p.FirstName,
		&p.Character.Name, &avatar, &theme,
		&p.Progression.TotalPoints, &p.Progression.Level, &rank,
		&p.Preferences.Notifications, &p.Preferences.SoundEffects,
		&p.Preferences.Penalties, &p.Preferences.DarkMode,
		&personality, &p.CharacterCreated, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Character.Avatar = Avatar(avatar)
	p.Character.Theme = Theme(theme)
	p.Progression.Rank = Rank(rank)
	p.Personality = quotes.Personality(personality)
	return &p, nil
}

// Upsert создаёт профиль по умолчанию или обновляет username/имя существующего.
// Герой, опыт и настройки при повторном входе не трогаются.
func (r *Repository) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (user_id, username, first_name, character_name, avatar, theme,
		                      total_xp, level, rank, notifications, sound_effects, penalties,
		                      dark_mode, personality, character_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    updated_at = NOW()
		RETURNING ` + profileColumns
	row := r.db.QueryRow(ctx, query,
		p.UserID, p.Username, p.FirstName,
		p.Character.Name, string(p.Character.Avatar), string(p.Character.Theme),
		p.Progression.TotalPoints, p.Progression.Level, string(p.Progression.Rank),
		p.Preferences.Notifications, p.Preferences.SoundEffects,
		p.Preferences.Penalties, p.Preferences.DarkMode,
		string(p.Personality),
	)
	out, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания/обновления профиля (user_id=%d): %w", p.UserID, err)
	}
	return out, nil
}

// GetByUserID возвращает профиль. Если не найден — common.ErrProfileNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user_id=%d: %w", userID, common.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения профиля (user_id=%d): %w", userID, err)
	}
	return p, nil
}

// UpdateCharacter сохраняет героя и отмечает, что создание пройдено.
func (r *Repository) UpdateCharacter(ctx context.Context, userID int64, c Character) error {
	query := `
		UPDATE profiles
		SET character_name = $2, avatar = $3, theme = $4, character_created = TRUE, updated_at = NOW()
		WHERE user_id = $1
	`
	return r.execOne(ctx, query, userID, c.Name, string(c.Avatar), string(c.Theme))
}

// UpdatePersonality меняет набор цитат.
func (r *Repository) UpdatePersonality(ctx context.Context, userID int64, p quotes.Personality) error {
	query := `UPDATE profiles SET personality = $2, updated_at = NOW() WHERE user_id = $1`
	return r.execOne(ctx, query, userID, string(p))
}

// UpdateNotifications включает или выключает напоминания.
func (r *Repository) UpdateNotifications(ctx context.Context, userID int64, enabled bool) error {
	query := `UPDATE profiles SET notifications = $2, updated_at = NOW() WHERE user_id = $1`
	return r.execOne(ctx, query, userID, enabled)
}

func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrProfileNotFound
	}
	return nil
}

// ApplyXP атомарно начисляет опыт: читает прогресс с FOR UPDATE,
// применяет apply, сохраняет total/level/rank и пишет строку в xp_events.
// Параллельные начисления одному пользователю выполняются последовательно.
func (r *Repository) ApplyXP(ctx context.Context, userID int64, source, description string,
	apply func(Progression) AwardResult) (AwardResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return AwardResult{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	err = tx.QueryRow(ctx, `SELECT total_xp FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AwardResult{}, common.ErrProfileNotFound
		}
		return AwardResult{}, fmt.Errorf("ошибка чтения опыта: %w", err)
	}

	res := apply(NewProgression(total))

	_, err = tx.Exec(ctx, `
		UPDATE profiles
		SET total_xp = $2, level = $3, rank = $4, updated_at = NOW()
		WHERE user_id = $1
	`, userID, res.After.TotalPoints, res.After.Level, string(res.After.Rank))
	if err != nil {
		return AwardResult{}, fmt.Errorf("ошибка сохранения опыта: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO xp_events (user_id, points, source, description)
		VALUES ($1, $2, $3, $4)
	`, userID, res.Points, source, description)
	if err != nil {
		return AwardResult{}, fmt.Errorf("ошибка записи начисления: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return AwardResult{}, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return res, nil
}

// RecentXPEvents возвращает последние начисления пользователя.
func (r *Repository) RecentXPEvents(ctx context.Context, userID int64, limit int) ([]*XPEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, points, source, description, created_at
		FROM xp_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса начислений: %w", err)
	}
	defer rows.Close()

	var out []*XPEvent
	for rows.Next() {
		var e XPEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Source, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения начисления: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ListNotifiable возвращает профили с включёнными уведомлениями.
func (r *Repository) ListNotifiable(ctx context.Context) ([]*Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE notifications = TRUE ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса профилей: %w", err)
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения профиля: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
